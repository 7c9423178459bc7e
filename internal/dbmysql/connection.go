package dbmysql

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aheyecare/internal/config"
	"aheyecare/internal/logging"
)

// NewDatabase opens the relational store selected by cfg.Database.Driver
// and migrates every table the storefront uses.
func NewDatabase(cnf *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cnf.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cnf.DSN())
	case "sqlite", "":
		if cnf.Database.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is not set")
		}
		dialector = sqlite.Open(cnf.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cnf.Database.Driver)
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	if cnf.Database.Driver == "mysql" {
		sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	logging.L().Info().Str("driver", db.Dialector.Name()).Msg("connected to database")
	return db, nil
}

// Open wraps gorm.Open with the storefront defaults.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&ChatMessage{},
		&Admin{},
		&Product{},
		&Order{},
		&ContactMessage{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
