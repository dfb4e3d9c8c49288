package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gitonboard.db", cfg.GetDatabasePath())
	assert.Equal(t, DefaultServerPort, cfg.GetServerPort())
	assert.Equal(t, "", cfg.Board.Owner)
	assert.Equal(t, 25.0, cfg.Server.RateLimitPerSecond)
	assert.Equal(t, 50, cfg.Server.RateLimitBurst)
	assert.Contains(t, cfg.GetServerAllowedOrigins(), "http://localhost")
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gitonboard.toml")

	content := `
[database]
path = "/tmp/custom.db"

[server]
port = 9100
allowed_origins = ["https://board.example.com"]

[board]
owner = "olivia"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.GetDatabasePath())
	assert.Equal(t, 9100, cfg.GetServerPort())
	assert.Equal(t, []string{"https://board.example.com"}, cfg.GetServerAllowedOrigins())
	assert.Equal(t, "olivia", cfg.Board.Owner)

	// Unset keys keep their defaults
	assert.Equal(t, 25.0, cfg.Server.RateLimitPerSecond)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/gitonboard.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("GITONBOARD_BOARD_OWNER", "oscar")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "oscar", cfg.Board.Owner)
}

func TestDatabasePathEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("DB_PATH", "/tmp/override.db")

	path, err := GetDatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", path)
}

func TestLoadIsCached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
