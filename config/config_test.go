package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("INVENTORY_CACHE_SIZE", "")
	t.Setenv("INVENTORY_LOCK_STRIPES", "not-a-number")
	t.Setenv("EMAIL_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.DBUrl, "ticketinventory")
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, 4096, cfg.Inventory.CacheSize)
	assert.Equal(t, 64, cfg.Inventory.LockStripes)
	assert.Equal(t, "noop", cfg.Email.Provider)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingJWTSecret)
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestLoad_Tracing(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("TRACING_OTLP_INSECURE", "")
	t.Setenv("TRACING_SAMPLE_RATE", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Tracing.Insecure)
	assert.Equal(t, "collector:4318", cfg.Tracing.OTLPEndpoint)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
}
