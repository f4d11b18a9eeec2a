// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration values for the sync server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DBPath is the SQLite database file path. Defaults to "./data/traveltracker.db".
	DBPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenTTL is how long issued tokens stay valid. Defaults to 24h.
	// Set TOKEN_TTL to a Go duration string to override.
	TokenTTL time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error when a required variable is not set or a value does not parse.
func Load() (Config, error) {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "./data/traveltracker.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("required environment variable not set: JWT_SECRET")
	}

	ttl := getEnv("TOKEN_TTL", "24h")
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
	}
	cfg.TokenTTL = parsed

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
