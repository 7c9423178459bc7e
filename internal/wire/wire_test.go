package wire

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aheyecare/internal/cart"
	"aheyecare/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		Storage:  config.StorageConfig{Backend: "local", LocalDir: filepath.Join(dir, "uploads")},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", Issuer: "aheyecare"},
		Chat:     config.ChatConfig{SendBuffer: 8},
		Catalog:  config.CatalogConfig{ImageDir: filepath.Join(dir, "pics"), CartTTL: time.Minute},
	}
}

func TestInitializeApplication(t *testing.T) {
	app, cleanup, err := InitializeApplication(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, app.DB)
	assert.NotNil(t, app.Chat)
	assert.NotNil(t, app.WS)
	assert.NotNil(t, app.Catalog)
	assert.NotNil(t, app.Orders)
	assert.NotNil(t, app.Health)

	ctx := context.Background()
	require.NoError(t, app.Admin.EnsureDefaultAdmin(ctx, "admin", "admin123"))
	session, err := app.Admin.Login(ctx, "admin", "admin123", false)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestInitializeApplication_BadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "ftp"
	_, _, err := InitializeApplication(cfg)
	assert.ErrorContains(t, err, "unsupported storage backend")
}

func TestProvideCartStore(t *testing.T) {
	cfg := testConfig(t)
	store, cleanup, err := ProvideCartStore(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &cart.MemoryStore{}, store)

	cfg.Redis = config.RedisConfig{Enabled: true, Addr: "127.0.0.1:1"}
	_, _, err = ProvideCartStore(cfg)
	assert.Error(t, err)
}
