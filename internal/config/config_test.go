package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEMPY_API_BASE_URL", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://wempy.onrender.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.CallTimeout)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "wempyCart", cfg.Keys.Cart)
	assert.Equal(t, "wempyUserID", cfg.Keys.User)
	assert.Equal(t, 2*time.Second, cfg.Checkout.RedirectDelay)
	assert.Equal(t, "login.html", cfg.Checkout.LoginPath)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("WEMPY_API_BASE_URL", "http://localhost:9000/")
	t.Setenv("WEMPY_API_TIMEOUT_SECONDS", "3")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("CHECKOUT_REDIRECT_DELAY_MS", "500")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://wempy.example, https://admin.wempy.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.CallTimeout)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Checkout.RedirectDelay)
	assert.Equal(t, []string{"https://wempy.example", "https://admin.wempy.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative base url", "WEMPY_API_BASE_URL", "wempy.onrender.com"},
		{"unknown backend", "STORAGE_BACKEND", "sqlite"},
		{"zero timeout", "WEMPY_API_TIMEOUT_SECONDS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss", DBName: "storefront", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=app password=p@ss dbname=storefront sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://app:p%40ss@db:5432/storefront?sslmode=disable", d.URL())
}
