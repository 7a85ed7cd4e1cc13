package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("UPLOAD_MAX_BYTES", "")
	t.Setenv("AUTH_ALLOW_PLAINTEXT_PASSWORDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.False(t, cfg.Auth.AllowPlaintextPasswords)
	assert.Equal(t, "text-embedding-004", cfg.Gemini.EmbeddingModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("AUTH_ALLOW_PLAINTEXT_PASSWORDS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.AllowPlaintextPasswords)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestSMTPConfigured(t *testing.T) {
	assert.False(t, SMTPConfig{Username: "ops@example.com"}.Configured())
	assert.True(t, SMTPConfig{Username: "ops@example.com", Password: "secret"}.Configured())
}

func TestRequestTimeoutDisabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
}
