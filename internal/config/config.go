// Package config loads SharePay settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration.
type Config struct {
	// DBPath is the SQLite database file. Parent directories are created.
	DBPath string `env:"SHAREPAY_DB_PATH" envDefault:"./data/sharepay.db"`

	// Address is the listen address of the HTTP server.
	Address string `env:"SHAREPAY_ADDRESS" envDefault:":8080"`

	// JWTSecret signs session tokens. Required to serve.
	JWTSecret string `env:"SHAREPAY_JWT_SECRET"`

	// TokenDuration is how long issued session tokens stay valid.
	TokenDuration time.Duration `env:"SHAREPAY_TOKEN_DURATION" envDefault:"24h"`

	// MetricsEnabled exposes Prometheus metrics at /metrics.
	MetricsEnabled bool `env:"SHAREPAY_METRICS_ENABLED" envDefault:"true"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

var (
	ErrMissingDBPath    = errors.New("database path is required")
	ErrMissingAddress   = errors.New("listen address is required")
	ErrMissingJWTSecret = errors.New("SHAREPAY_JWT_SECRET is required")
	ErrInvalidTokenSpan = errors.New("token duration must be positive")
)

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed by every command.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return ErrMissingDBPath
	}
	if c.Address == "" {
		return ErrMissingAddress
	}
	if c.TokenDuration <= 0 {
		return ErrInvalidTokenSpan
	}
	return nil
}

// ValidateServe additionally requires the settings of the server.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
