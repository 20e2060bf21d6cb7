package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.API.TimeoutSec)
	assert.Equal(t, "X-User-ID", cfg.API.IdentityHeader)
	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, 60, cfg.Display.PollIntervalSec)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`api:
  base_url: https://todo.example.com/api
  timeout_sec: 3
storage:
  backend: keyring
display:
  poll_interval_sec: 15
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://todo.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.API.TimeoutSec)
	assert.Equal(t, "X-User-ID", cfg.API.IdentityHeader)
	assert.Equal(t, StorageKeyring, cfg.Storage.Backend)
	assert.Equal(t, 15, cfg.Display.PollIntervalSec)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TODOLIST_API_BASE_URL", "http://api.internal:8080/api")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:8080/api", cfg.API.BaseURL)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.API.BaseURL = "http://saved.example/api"
	cfg.Display.PollIntervalSec = 42

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example/api", loaded.API.BaseURL)
	assert.Equal(t, 42, loaded.Display.PollIntervalSec)
}
