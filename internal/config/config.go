package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"aheyecare/internal/logging"
)

// Development fallbacks. Validate refuses them when APP_ENV is production.
const (
	DefaultJWTSecret     = "change-me"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	MongoDB MongoConfig `json:"mongodb"`

	Redis RedisConfig `json:"redis"`

	// Attachment storage backend
	Storage StorageConfig `json:"storage"`

	Auth AuthConfig `json:"auth"`

	Chat ChatConfig `json:"chat"`

	Catalog CatalogConfig `json:"catalog"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port            string        `json:"port"`
	Host            string        `json:"host"`
	HealthPort      string        `json:"health_port"`
	MediaPort       string        `json:"media_port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Environment     string        `json:"environment"` // development, staging, production
	AllowedOrigins  []string      `json:"allowed_origins"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `json:"driver"` // sqlite, mysql
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	SQLitePath   string `json:"sqlite_path"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Bucket   string `json:"bucket"`

	ConnectTimeout time.Duration `json:"connect_timeout"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type StorageConfig struct {
	Backend     string `json:"backend"` // local, gridfs, s3
	LocalDir    string `json:"local_dir"`
	S3Bucket    string `json:"s3_bucket"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3Region    string `json:"s3_region"`
	S3AccessKey string `json:"-"`
	S3SecretKey string `json:"-"`
	S3PathStyle bool   `json:"s3_path_style"`
}

type AuthConfig struct {
	JWTSecret       string        `json:"-"`
	Issuer          string        `json:"issuer"`
	SessionLifetime time.Duration `json:"session_lifetime"`
	RememberFor     time.Duration `json:"remember_for"`
	AdminUsername   string        `json:"admin_username"`
	AdminPassword   string        `json:"-"`
}

// ChatConfig tunes the websocket relay.
type ChatConfig struct {
	SendBuffer     int           `json:"send_buffer"`
	MaxMessageSize int64         `json:"max_message_size"`
	WriteWait      time.Duration `json:"write_wait"`
	PongWait       time.Duration `json:"pong_wait"`
	PingInterval   time.Duration `json:"ping_interval"`
	MaxUploadMB    int64         `json:"max_upload_mb"`
}

type CatalogConfig struct {
	ImageDir string        `json:"image_dir"`
	CartTTL  time.Duration `json:"cart_ttl"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// LoadConfig reads .env, an optional config.yaml and the environment.
// Environment variables win over the file, the file over defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logging.L().Debug().Msg(".env file not found, using system environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logging.L().Warn().Err(err).Msg("failed to read config file, using environment only")
		}
	}

	pingInterval := v.GetDuration("CHAT_PING_INTERVAL")
	pongWait := v.GetDuration("CHAT_PONG_WAIT")
	if pingInterval <= 0 || pingInterval >= pongWait {
		pingInterval = (pongWait * 9) / 10
	}

	return &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			HealthPort:      v.GetString("HEALTH_PORT"),
			MediaPort:       v.GetString("MEDIA_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			Environment:     v.GetString("APP_ENV"),
			AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Username:     v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DatabaseName: v.GetString("DB_NAME"),
			SQLitePath:   v.GetString("SQLITE_PATH"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		MongoDB: MongoConfig{
			Host:     v.GetString("MONGO_HOST"),
			Port:     v.GetString("MONGO_PORT"),
			Username: v.GetString("MONGO_USERNAME"),
			Password: v.GetString("MONGO_PASSWORD"),
			Database: v.GetString("MONGO_DATABASE"),
			Bucket:   v.GetString("MONGO_BUCKET"),

			ConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(v.GetString("STORAGE_BACKEND")),
			LocalDir:    v.GetString("STORAGE_LOCAL_DIR"),
			S3Bucket:    v.GetString("S3_BUCKET"),
			S3Endpoint:  v.GetString("S3_ENDPOINT"),
			S3Region:    v.GetString("S3_REGION"),
			S3AccessKey: v.GetString("S3_ACCESS_KEY_ID"),
			S3SecretKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			S3PathStyle: v.GetBool("S3_USE_PATH_STYLE"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			Issuer:          v.GetString("JWT_ISSUER"),
			SessionLifetime: v.GetDuration("SESSION_LIFETIME"),
			RememberFor:     v.GetDuration("SESSION_REMEMBER_FOR"),
			AdminUsername:   v.GetString("ADMIN_USERNAME"),
			AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		},
		Chat: ChatConfig{
			SendBuffer:     v.GetInt("CHAT_SEND_BUFFER"),
			MaxMessageSize: v.GetInt64("CHAT_MAX_MESSAGE_SIZE"),
			WriteWait:      v.GetDuration("CHAT_WRITE_WAIT"),
			PongWait:       pongWait,
			PingInterval:   pingInterval,
			MaxUploadMB:    v.GetInt64("CHAT_MAX_UPLOAD_MB"),
		},
		Catalog: CatalogConfig{
			ImageDir: v.GetString("PRODUCT_IMAGE_DIR"),
			CartTTL:  v.GetDuration("CART_TTL"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("HEALTH_PORT", "7005")
	v.SetDefault("MEDIA_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "aheyecare")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "aheyecare")
	v.SetDefault("SQLITE_PATH", "site.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("MONGO_HOST", "localhost")
	v.SetDefault("MONGO_PORT", "27017")
	v.SetDefault("MONGO_USERNAME", "")
	v.SetDefault("MONGO_PASSWORD", "")
	v.SetDefault("MONGO_DATABASE", "aheyecare")
	v.SetDefault("MONGO_BUCKET", "chat_uploads")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "static/uploads")
	v.SetDefault("S3_REGION", "us-east-1")

	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "aheyecare")
	v.SetDefault("SESSION_LIFETIME", 30*time.Minute)
	v.SetDefault("SESSION_REMEMBER_FOR", 7*24*time.Hour)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", DefaultAdminPassword)

	v.SetDefault("CHAT_SEND_BUFFER", 256)
	v.SetDefault("CHAT_MAX_MESSAGE_SIZE", 4096)
	v.SetDefault("CHAT_WRITE_WAIT", 10*time.Second)
	v.SetDefault("CHAT_PONG_WAIT", 60*time.Second)
	v.SetDefault("CHAT_PING_INTERVAL", 54*time.Second)
	v.SetDefault("CHAT_MAX_UPLOAD_MB", 10)

	v.SetDefault("PRODUCT_IMAGE_DIR", "static/pics")
	v.SetDefault("CART_TTL", 30*time.Minute)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// IsProduction reports whether APP_ENV names a production deployment.
func (cfg *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(cfg.Server.Environment), "production")
}

// Validate rejects settings that must never reach a production deployment.
func (cfg *Config) Validate() error {
	if !cfg.IsProduction() {
		return nil
	}
	var errs []error
	if cfg.Auth.JWTSecret == "" || cfg.Auth.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set to a non-default value in production"))
	}
	if cfg.Auth.AdminPassword == DefaultAdminPassword {
		errs = append(errs, errors.New("ADMIN_PASSWORD must not be the default in production"))
	}
	return errors.Join(errs...)
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
	)
}

// MaxUploadBytes is the request body limit for attachment uploads.
func (cfg *Config) MaxUploadBytes() int64 {
	if cfg.Chat.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return cfg.Chat.MaxUploadMB << 20
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
