package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"game": {"unlock_policy": "requirements", "battery_penalty": 8}, "storage": {"driver": "sqlite"}}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "requirements", cfg.Game.UnlockPolicy)
	assert.Equal(t, 8, cfg.Game.BatteryPenalty)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	// Untouched sections keep their defaults.
	assert.Equal(t, 1500, cfg.Game.ClosingDelayMS)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	t.Setenv("DISTRICT_SERVER_PORT", "9090")
	t.Setenv("DISTRICT_GAME_MAX_BATTERY", "120")
	t.Setenv("DISTRICT_CONTENT_FORMAT", "yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 120, cfg.Game.MaxBattery)
	assert.Equal(t, "yaml", cfg.Content.Format)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestEnvRejectsBadNumber(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("DISTRICT_GAME_BATTERY_PENALTY", "lots")
	assert.Error(t, ApplyEnv(&cfg))
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
