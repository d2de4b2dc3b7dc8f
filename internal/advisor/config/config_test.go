package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: advisor-test
alert:
  cooldown: 30m
database:
  host: db.internal
  port: 5432
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "advisor-test", cfg.App.Name)
	assert.Equal(t, 30*time.Minute, cfg.Alert.Cooldown)
	assert.Equal(t, 0.005, cfg.Alert.ProximityThreshold)
	assert.Equal(t, "*/5 * * * *", cfg.Scheduler.Cron)
	assert.Equal(t, 1, cfg.Scheduler.MaxConcurrentUsers)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 10*time.Second, cfg.YahooFinance.Timeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ALERT_CURRENCY", "USD")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Alert.Currency)
	assert.Equal(t, time.Hour, cfg.Alert.Cooldown)
}
