package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultDBUrl, cfg.DBUrl)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.AnnouncementInterval)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.TaskWorkers)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_fromEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ANNOUNCEMENT_INTERVAL", "15m")
	t.Setenv("TASK_WORKERS", "0")
	t.Setenv("EMAIL_PROVIDER", "ses")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://x", cfg.DBUrl)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.AnnouncementInterval)
	assert.Equal(t, 1, cfg.TaskWorkers)
	assert.Equal(t, "ses", cfg.Email.Provider)
}

func TestLoad_productionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
