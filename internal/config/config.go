package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/taskloop/taskloop/internal/auth"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	StoreBackend    string
	ServerPort      string
	FrontendURL     string
	AuthSecret      string
	AuthIssuer      string
	AuthAudience    string
	AuthTokenTTL    time.Duration
	AuthClockSkew   time.Duration
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		StoreBackend:    getEnv("STORE_BACKEND", StorePostgres),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		AuthSecret:      getEnv("AUTH_SECRET", ""),
		AuthIssuer:      getEnv("AUTH_ISSUER", "taskloop"),
		AuthAudience:    getEnv("AUTH_AUDIENCE", "taskloop-api"),
		AuthTokenTTL:    time.Duration(getEnvInt("AUTH_TOKEN_TTL_SECONDS", 3600)) * time.Second,
		AuthClockSkew:   time.Duration(getEnvInt("AUTH_CLOCK_SKEW_SECONDS", 10)) * time.Second,
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	// Verifying tokens against an empty or default secret is never
	// acceptable; refuse to start instead.
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	if len(cfg.AuthSecret) < auth.MinSecretLength {
		return nil, fmt.Errorf("AUTH_SECRET must be at least %d bytes, got %d", auth.MinSecretLength, len(cfg.AuthSecret))
	}

	switch cfg.StoreBackend {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case StoreMemory:
		// No external storage needed.
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (must be %q or %q)", cfg.StoreBackend, StorePostgres, StoreMemory)
	}

	if cfg.AuthTokenTTL <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL_SECONDS must be positive")
	}
	if cfg.AuthClockSkew < 0 {
		return nil, fmt.Errorf("AUTH_CLOCK_SKEW_SECONDS must not be negative")
	}

	return cfg, nil
}

// LoadAuth loads only the auth-related configuration, with the same secret
// guard as Load. Used by tooling that works on tokens without touching
// storage.
func LoadAuth() (*Config, error) {
	cfg := &Config{
		AuthSecret:    getEnv("AUTH_SECRET", ""),
		AuthIssuer:    getEnv("AUTH_ISSUER", "taskloop"),
		AuthAudience:  getEnv("AUTH_AUDIENCE", "taskloop-api"),
		AuthTokenTTL:  time.Duration(getEnvInt("AUTH_TOKEN_TTL_SECONDS", 3600)) * time.Second,
		AuthClockSkew: time.Duration(getEnvInt("AUTH_CLOCK_SKEW_SECONDS", 10)) * time.Second,
	}

	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	if len(cfg.AuthSecret) < auth.MinSecretLength {
		return nil, fmt.Errorf("AUTH_SECRET must be at least %d bytes, got %d", auth.MinSecretLength, len(cfg.AuthSecret))
	}
	if cfg.AuthTokenTTL <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL_SECONDS must be positive")
	}

	return cfg, nil
}

// Policy returns the token verification policy derived from configuration.
func (c *Config) Policy() auth.Policy {
	return auth.Policy{
		Issuer:    c.AuthIssuer,
		Audience:  c.AuthAudience,
		ClockSkew: c.AuthClockSkew,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
