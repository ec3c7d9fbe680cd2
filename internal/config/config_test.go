package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultMediaDir, cfg.Media.Dir)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)
	assert.False(t, cfg.Global.DemoMode)

	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)

	assert.True(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "30 3 * * *", cfg.Maintenance.Schedule)

	assert.Empty(t, cfg.Auth.SessionSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.SecureCookies)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/vocab.db")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("AUTH_SESSION_LIFETIME", "1h")
	t.Setenv("TASK_WORKERS", "5")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/vocab.db", cfg.Database.Path)
	assert.True(t, cfg.Global.DemoMode)
	assert.Equal(t, time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 5, cfg.Tasks.Workers)
}
