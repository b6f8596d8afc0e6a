package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Presence.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, cfg.Rooms.PingInterval)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Monitoring.PrometheusEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  address: ":9090"
presence:
  heartbeat_interval: 5s
auth:
  jwt_secret: "s3cret"
`)
	assert.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Presence.HeartbeatInterval)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	// Untouched values keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
presence:
  heartbeat_interval: -1s
`)
	assert.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.SampleRate = 2.0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.Burst = 0
	assert.Error(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPRINGBOARD_SERVER_ADDRESS", ":7070")
	t.Setenv("SPRINGBOARD_LOG_LEVEL", "debug")
	t.Setenv("SPRINGBOARD_JWT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}
