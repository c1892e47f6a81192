// Package config loads process settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the fgshocks and inspect commands.
// Command-line flags override these values.
type Config struct {
	DBPath           string  `env:"FGSHOCKS_DB"                  envDefault:"fgshocks.db"`
	OutputDir        string  `env:"FGSHOCKS_OUTPUT_DIR"`
	ShockPrefix      string  `env:"FGSHOCKS_SHOCK_PREFIX"        envDefault:"ui_"`
	PostShockPeriods int     `env:"FGSHOCKS_POST_SHOCK_PERIODS"  envDefault:"10"`
	MaxResidual      float64 `env:"FGSHOCKS_MAX_RESIDUAL"        envDefault:"1e-8"`
	Workers          int     `env:"FGSHOCKS_WORKERS"             envDefault:"4"`
	LogJSON          bool    `env:"FGSHOCKS_LOG_JSON"`
	Verbose          bool    `env:"FGSHOCKS_VERBOSE"`
}

// Load parses the environment and checks ranges.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no run could use.
func (c Config) Validate() error {
	if c.PostShockPeriods < 0 {
		return fmt.Errorf("post-shock periods must be >= 0, got %d", c.PostShockPeriods)
	}
	if c.MaxResidual <= 0 {
		return fmt.Errorf("max residual must be > 0, got %g", c.MaxResidual)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.ShockPrefix == "" {
		return fmt.Errorf("shock prefix must not be empty")
	}
	return nil
}
