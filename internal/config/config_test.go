package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "MAX_UPLOAD_BYTES", "ENABLE_AUTH", "ALLOWED_ORIGINS", "SESSION_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, int64(200*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.Equal(t, 20, cfg.HistogramBins)
	assert.Equal(t, 1500, cfg.ChartWidth)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 64, cfg.MaxSessions)
	assert.False(t, cfg.EnableAuth)
	assert.False(t, cfg.IsProduction())
	assert.Len(t, cfg.AllowedOrigins, 2)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("PREVIEW_ROWS", "not-a-number")
	t.Setenv("ENABLE_AUTH", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.PreviewRows, "invalid values fall back to the default")
}

func TestLoadFromEnv_AuthRequiresSecret(t *testing.T) {
	t.Setenv("ENABLE_AUTH", "true")
	t.Setenv("CLERK_SECRET_KEY", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLERK_SECRET_KEY")

	t.Setenv("CLERK_SECRET_KEY", "sk_test_123")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.EnableAuth)
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("ENABLE_AUTH", "")
	t.Setenv("PORT", "70000")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}
