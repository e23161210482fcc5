// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server and batch jobs read from the
// environment.
type Config struct {
	// Addr is the listen address for the HTTP API.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file.
	DBPath string `env:"DB_PATH" envDefault:"./data/roomtab.db"`

	// JWTSecret signs session tokens. Must be set outside development.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RetentionDays is how long settled expenses are kept before the
	// purge job deletes them.
	RetentionDays int `env:"RETENTION_DAYS" envDefault:"90"`

	// CORSOrigin is the allowed origin for browser clients.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.RetentionDays <= 0 {
		return Config{}, fmt.Errorf("RETENTION_DAYS must be positive, got %d", cfg.RetentionDays)
	}
	return cfg, nil
}
