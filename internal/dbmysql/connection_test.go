package dbmysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aheyecare/internal/config"
)

func TestNewDatabase_SQLiteMigratesTables(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}}

	db, err := NewDatabase(cfg)
	require.NoError(t, err)

	for _, model := range []interface{}{&ChatMessage{}, &Admin{}, &Product{}, &Order{}, &ContactMessage{}} {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasColumn(&ChatMessage{}, "session_id"))
	assert.True(t, db.Migrator().HasColumn(&ChatMessage{}, "file_url"))
}

func TestNewDatabase_Errors(t *testing.T) {
	_, err := NewDatabase(&config.Config{Database: config.DatabaseConfig{Driver: "oracle"}})
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = NewDatabase(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}})
	assert.ErrorContains(t, err, "SQLITE_PATH")
}

func TestValidProductType(t *testing.T) {
	assert.True(t, ValidProductType(ProductTypeEyeglasses))
	assert.True(t, ValidProductType(ProductTypeSunglasses))
	assert.False(t, ValidProductType("contact-lenses"))
	assert.False(t, ValidProductType(""))
}
