// Package config holds the process configuration, sourced from the
// environment. Flags override these values where a command exposes
// them.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-derived configuration.
type Config struct {
	// DBPath is the SQLite database holding saved creations.
	DBPath string `env:"PORISM_DB" envDefault:"porism.db"`
	// PropsDir is an optional directory of CUE proposition packs
	// loaded on top of the built-ins.
	PropsDir string `env:"PORISM_PROPS"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"PORISM_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("load config: unknown log level %q", c.LogLevel)
}
