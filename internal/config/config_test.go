package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config.yaml present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.basketball-reference.com", cfg.Provider.BaseURL)
	assert.Equal(t, 30, cfg.Provider.TimeoutSecs)
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
	assert.Equal(t, 20, cfg.Provider.RequestsPerMinute)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hooprank.db", cfg.Store.Path)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.Equal(t, "default", cfg.Rating.Profile)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 1950, cfg.Server.SeasonFloor)
	assert.Equal(t, 2025, cfg.Server.SeasonCeil)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOOPRANK_STORE_DRIVER", "postgres")
	t.Setenv("HOOPRANK_SERVER_PORT", "9090")
	t.Setenv("HOOPRANK_RATING_PROFILE", "qualified")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "qualified", cfg.Rating.Profile)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/config.yaml", `
provider:
  requests_per_minute: 10
store:
  driver: postgres
  database_url: postgres://localhost/hooprank
server:
  season_ceil: 2026
`)
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Provider.RequestsPerMinute)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/hooprank", cfg.Store.DatabaseURL)
	assert.Equal(t, 2026, cfg.Server.SeasonCeil)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
