package wire

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	"aheyecare/internal/admin"
	"aheyecare/internal/cart"
	"aheyecare/internal/catalog"
	"aheyecare/internal/chat/handler"
	"aheyecare/internal/chat/hub"
	"aheyecare/internal/chat/repository"
	"aheyecare/internal/chat/service"
	"aheyecare/internal/common"
	"aheyecare/internal/config"
	"aheyecare/internal/contact"
	"aheyecare/internal/dbmysql"
	"aheyecare/internal/health"
	"aheyecare/internal/logging"
	"aheyecare/internal/order"
	"aheyecare/internal/storage"
)

// Application holds every long-lived component of the storefront process.
type Application struct {
	Config *config.Config
	DB     *gorm.DB

	Chat        *service.ChatService
	ChatHandler *handler.ChatHandler
	WS          *handler.WSHandler

	Admin        admin.AdminService
	AdminHandler *admin.Handler

	Catalog *catalog.Handler
	Cart    *cart.Handler
	Orders  *order.Handler
	Contact *contact.Handler

	Health *health.Server
}

var ProviderSet = wire.NewSet(
	ProvideDatabase,
	ProvideAttachmentStore,
	ProvideImageStore,
	ProvideTokenManager,
	ProvideCartStore,

	repository.NewChatRepository,
	hub.NewRegistry,
	service.NewChatService,
	ProvideChatHandler,
	ProvideWSHandler,

	admin.NewAdminRepository,
	ProvideAdminService,
	ProvideAdminHandler,

	catalog.NewProductRepository,
	catalog.NewProductService,
	catalog.NewHandler,

	ProvideProductLookup,
	cart.NewCartService,
	cart.NewHandler,

	contact.NewRepository,
	contact.NewService,
	contact.NewHandler,

	ProvideProductLister,
	ProvideContactLister,
	order.NewOrderRepository,
	order.NewOrderService,
	order.NewDashboardService,
	order.NewHandler,

	ProvideHealthServer,
	wire.Struct(new(Application), "*"),
)

func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func ProvideAttachmentStore(cfg *config.Config) (storage.Storage, func(), error) {
	return storage.New(context.Background(), cfg)
}

func ProvideImageStore(cfg *config.Config) (catalog.ImageStore, error) {
	store, err := storage.NewLocalStorage(cfg.Catalog.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("product image dir: %w", err)
	}
	return store, nil
}

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	return common.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
}

// ProvideCartStore uses Redis when enabled and process memory otherwise.
func ProvideCartStore(cfg *config.Config) (cart.Store, func(), error) {
	if !cfg.Redis.Enabled {
		return cart.NewMemoryStore(cfg.Catalog.CartTTL), func() {}, nil
	}
	client, err := cart.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	logging.L().Info().Str("addr", cfg.Redis.Addr).Msg("cart store using redis")
	return cart.NewRedisStore(client, cfg.Catalog.CartTTL), func() { client.Close() }, nil
}

func ProvideChatHandler(svc *service.ChatService, store storage.Storage, cfg *config.Config) *handler.ChatHandler {
	return handler.NewChatHandler(svc, store, cfg.MaxUploadBytes())
}

func ProvideWSHandler(svc *service.ChatService, cfg *config.Config) *handler.WSHandler {
	return handler.NewWSHandler(svc, cfg.Chat, cfg.Server.AllowedOrigins)
}

func ProvideAdminService(repo admin.AdminRepository, tokens *common.TokenManager, cfg *config.Config) admin.AdminService {
	return admin.NewAdminService(repo, tokens, cfg.Auth)
}

func ProvideAdminHandler(svc admin.AdminService, cfg *config.Config) *admin.Handler {
	return admin.NewHandler(svc, secureCookies(cfg))
}

func ProvideProductLookup(repo catalog.ProductRepository) cart.ProductLookup {
	return repo
}

func ProvideProductLister(repo catalog.ProductRepository) order.ProductLister {
	return repo
}

func ProvideContactLister(svc contact.Service) order.ContactLister {
	return svc
}

func ProvideHealthServer(db *gorm.DB) *health.Server {
	return health.NewServer(health.DBPinger(db), 10*time.Second)
}

func secureCookies(cfg *config.Config) bool {
	return cfg.Server.Environment == "production"
}
