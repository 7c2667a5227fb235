package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POS_API_URL", "")
	t.Setenv("POS_API_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.GatewayPort)
	assert.Equal(t, "http://localhost:8080/api/data", cfg.POSProxyURL)
	assert.Equal(t, 60*time.Second, cfg.MenuCacheTTL)
	assert.Equal(t, 2*time.Second, cfg.CheckoutDelay)
	assert.Equal(t, "postgres", cfg.FavoritesBackend)
	assert.Empty(t, cfg.POSAPIToken)
	assert.Empty(t, cfg.MenuNestedCategoryID)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("POS_API_URL", "pos.example.com/api")
	t.Setenv("POS_API_TOKEN", "secret")
	t.Setenv("MENU_CACHE_TTL", "0s")
	t.Setenv("CHECKOUT_DELAY", "250ms")
	t.Setenv("MENU_NESTED_CATEGORY_ID", "1")
	t.Setenv("FAVORITES_BACKEND", "redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://menu.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pos.example.com/api", cfg.POSAPIURL)
	assert.Equal(t, "secret", cfg.POSAPIToken)
	assert.Equal(t, time.Duration(0), cfg.MenuCacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.CheckoutDelay)
	assert.Equal(t, "1", cfg.MenuNestedCategoryID)
	assert.Equal(t, "redis", cfg.FavoritesBackend)
	assert.Equal(t, []string{"https://menu.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("menu-svc", "debug")
	assert.Equal(t, logrus.DebugLevel, log.Level)

	log = NewLogger("menu-svc", "nonsense")
	assert.Equal(t, logrus.InfoLevel, log.Level)
}
