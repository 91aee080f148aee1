// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// AuthUsername is the login name of the single driver account. Required.
	AuthUsername string

	// AuthPasswordHash is the bcrypt hash of the driver's password.
	// At least one of AUTH_PASSWORD_HASH and AUTH_PASSWORD must be set;
	// the hash takes precedence when both are.
	AuthPasswordHash string

	// AuthPassword is the driver's plaintext password, hashed once at
	// startup. Meant for local development; deployments should set
	// AUTH_PASSWORD_HASH instead.
	AuthPassword string

	// AuthTokenSecret is the HMAC key that signs and verifies session
	// tokens. Required.
	AuthTokenSecret string

	// AuthTokenTTL is how long an issued session token stays valid.
	// Defaults to 24h.
	AuthTokenTTL time.Duration

	// MileageRate is the IRS standard mileage rate in dollars per mile.
	// Defaults to 0.725.
	MileageRate decimal.Decimal

	// MaxUploadBytes caps request body size, bounding photo and receipt
	// uploads. Defaults to 5242880 (5 MiB).
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or
// describing the first value that fails to parse.
func Load() (Config, error) {
	// A .env file is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AuthUsername = os.Getenv("AUTH_USERNAME")
	if cfg.AuthUsername == "" {
		missing = append(missing, "AUTH_USERNAME")
	}

	cfg.AuthPasswordHash = os.Getenv("AUTH_PASSWORD_HASH")
	cfg.AuthPassword = os.Getenv("AUTH_PASSWORD")
	if cfg.AuthPasswordHash == "" && cfg.AuthPassword == "" {
		missing = append(missing, "AUTH_PASSWORD_HASH (or AUTH_PASSWORD)")
	}

	cfg.AuthTokenSecret = os.Getenv("AUTH_TOKEN_SECRET")
	if cfg.AuthTokenSecret == "" {
		missing = append(missing, "AUTH_TOKEN_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error

	cfg.AuthTokenTTL, err = time.ParseDuration(getEnv("AUTH_TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid AUTH_TOKEN_TTL: %w", err)
	}
	if cfg.AuthTokenTTL <= 0 {
		return Config{}, fmt.Errorf("invalid AUTH_TOKEN_TTL: must be positive")
	}

	cfg.MileageRate, err = decimal.NewFromString(getEnv("MILEAGE_RATE", "0.725"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MILEAGE_RATE: %w", err)
	}
	if cfg.MileageRate.IsNegative() {
		return Config{}, fmt.Errorf("invalid MILEAGE_RATE: must not be negative")
	}

	cfg.MaxUploadBytes, err = strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "5242880"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES: must be positive")
	}

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

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
