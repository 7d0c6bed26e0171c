// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultTenantID is used when DEFAULT_TENANT_ID is unset.
const DefaultTenantID = "00000000-0000-0000-0000-000000000001"

// Config holds all runtime configuration for the api service.
type Config struct {
	Port        string
	GRPCPort    string
	DatabaseURL string
	RedisURL    string
	TenantID    string
	LogLevel    string
	// DigestsEnabled toggles the daily/weekly buy-box alert cron jobs.
	DigestsEnabled bool
}

// Load reads environment variables (and a .env file when present) and
// returns a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	tenantID := getEnv("DEFAULT_TENANT_ID", DefaultTenantID)
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, fmt.Errorf("DEFAULT_TENANT_ID must be a UUID, got %q", tenantID)
	}

	return &Config{
		Port:           getEnv("API_PORT", "8080"),
		GRPCPort:       getEnv("GRPC_PORT", "9090"),
		DatabaseURL:    dbURL,
		RedisURL:       redisURL,
		TenantID:       tenantID,
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DigestsEnabled: os.Getenv("DIGESTS_DISABLED") != "true",
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
