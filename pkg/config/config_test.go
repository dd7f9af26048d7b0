package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 10, cfg.Catalog.PageSize)
	assert.Equal(t, 50, cfg.Catalog.SalesRetention)
	assert.Equal(t, 50, cfg.Catalog.PurchaseRetention)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("CATALOG_PAGE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 25, cfg.Catalog.PageSize)
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDSN_EscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "suministros", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/suministros?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
