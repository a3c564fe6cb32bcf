package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprout.yaml")
	content := `
ledger_url: https://node.example.org
program_id: 9d4k2Qw
min_balance: 250000
probe_timeout: 5s
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://node.example.org", cfg.LedgerURL)
	assert.Equal(t, "9d4k2Qw", cfg.ProgramID)
	assert.Equal(t, uint64(250_000), cfg.MinBalance)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout.Std())
	assert.Equal(t, "debug", cfg.LogLevel)

	// Values the file omits keep their defaults.
	assert.Equal(t, Default().WriteTimeout, cfg.WriteTimeout)
	assert.Equal(t, Default().Port, cfg.Port)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger_url: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{}.SlogLevel())
}
