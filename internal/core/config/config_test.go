package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7979", cfg.Server.Addr)
	assert.True(t, cfg.Server.CORS)
	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, 0, cfg.History.MaxEntries)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
  cors: false
storage:
  backend: sqlite
history:
  max_entries: 50
  blocked_urls:
    - "https://ads.example.com/**"
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.False(t, cfg.Server.CORS)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, []string{"https://ads.example.com/**"}, cfg.History.BlockedURLs)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
history:
  max_entries: 10
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7979", cfg.Server.Addr)
	assert.True(t, cfg.Server.CORS, "omitted cors should keep the default")
	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.History.MaxEntries)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: redis
`)

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_EmptyDataDir(t *testing.T) {
	_, err := Load("", "")
	require.Error(t, err)
}

func TestPathHelpers(t *testing.T) {
	cfg := Config{DataDir: "/tmp/retrace"}

	assert.Equal(t, filepath.Join("/tmp/retrace", "history.json"), cfg.HistoryFile())
	assert.Equal(t, filepath.Join("/tmp/retrace", "history.db"), cfg.DatabaseFile())
	assert.Equal(t, filepath.Join("/tmp/retrace", "logs"), cfg.LogsDir())
}
