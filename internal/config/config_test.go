package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "porism.db", cfg.DBPath)
	assert.Empty(t, cfg.PropsDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORISM_DB", "/tmp/p.db")
	t.Setenv("PORISM_PROPS", "/tmp/props")
	t.Setenv("PORISM_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p.db", cfg.DBPath)
	assert.Equal(t, "/tmp/props", cfg.PropsDir)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_RejectsUnknownLevel(t *testing.T) {
	t.Setenv("PORISM_LOG_LEVEL", "loud")
	_, err := Load()
	assert.ErrorContains(t, err, "unknown log level")
}
