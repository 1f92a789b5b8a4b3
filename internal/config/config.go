// Package config loads process configuration from the environment.
// Configuration is immutable after start; the signing key in particular is
// read once here and never mutated.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseDSN string        `env:"DATABASE_DSN,required,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	// best effort; real environment variables win anyway
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
