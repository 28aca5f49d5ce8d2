// Package config loads environment configuration, optionally from a .env
// file next to the binary.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the campus lost-and-found service this front end ships
// against; override with NAJDENO_API_URL.
const DefaultAPIURL = "https://lost-and-found-api-production.up.railway.app"

// Config holds all application configuration.
type Config struct {
	// APIURL is the base URL of the remote lost-and-found service.
	APIURL string

	// Addr is the listen address.
	Addr string

	// DBPath is the local session database path.
	DBPath string

	// JWTSecret signs session cookies. Empty means auto-generate on start
	// (sessions then survive, but cookies are invalidated on restart).
	JWTSecret string

	// LogPath is an optional log file; stdout/stderr only when empty.
	LogPath string
}

// Load reads configuration from the environment. A .env file is honored
// when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:    getEnv("NAJDENO_API_URL", DefaultAPIURL),
		Addr:      getEnv("NAJDENO_ADDR", ":8080"),
		DBPath:    getEnv("NAJDENO_DB", "najdeno.sqlite3"),
		JWTSecret: getEnv("NAJDENO_JWT_SECRET", ""),
		LogPath:   getEnv("NAJDENO_LOG", ""),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("NAJDENO_API_URL must not be empty")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
