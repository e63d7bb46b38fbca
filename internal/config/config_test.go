package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mixkey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMixKey_MissingFile(t *testing.T) {
	cfg, err := LoadMixKey(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMixKey(), cfg)
}

func TestLoadMixKey_Overrides(t *testing.T) {
	path := writeConfig(t, `
scan_paths: [/games/ra, /games/ts]
workers: 3
log_level: debug
catalog:
  enabled: true
database:
  host: db
  port: 6543
`)
	cfg, err := LoadMixKey(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/games/ra", "/games/ts"}, cfg.ScanPaths)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.Catalog.Enabled)
	// Незаданные поля сохраняют значения по умолчанию.
	assert.Equal(t, "*.mix", cfg.Pattern)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, "postgres://mixkey:mixkey@db:6543/mixkey?sslmode=disable", cfg.Database.DSN())

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadMixKey_Invalid(t *testing.T) {
	_, err := LoadMixKey(writeConfig(t, "workers: [1"))
	require.Error(t, err)

	_, err = LoadMixKey(writeConfig(t, "log_level: loud"))
	require.Error(t, err)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{" debug ", slog.LevelDebug},
	}
	for _, tt := range tests {
		lvl, err := MixKey{LogLevel: tt.in}.Level()
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, lvl, tt.in)
	}
}
