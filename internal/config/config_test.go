package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("CARRIER_RETRIES", "")

	cfg := Load()

	assert.Equal(t, 6, cfg.MaxInstallments)
	assert.Equal(t, 72*time.Hour, cfg.OrderExpiration)
	assert.Equal(t, 30*time.Minute, cfg.Carrier.CacheTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://loja.rog.com.br, https://admin.rog.com.br")
	t.Setenv("CARRIER_RETRIES", "4")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://loja.rog.com.br", "https://admin.rog.com.br"}, cfg.CORSOrigins)
	assert.Equal(t, 4, cfg.Carrier.Retries)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}
