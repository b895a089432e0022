// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the API server configuration.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Retention      time.Duration `env:"EXECUTION_RETENTION" envDefault:"1h"`
	UpdateRate     float64       `env:"UPDATE_RATE_LIMIT" envDefault:"100"`
	UpdateBurst    int           `env:"UPDATE_RATE_BURST" envDefault:"200"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	AllowedOrigins string        `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
