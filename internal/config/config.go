// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tokenscout/tokenscout/internal/security"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Upstream signal sources
	AlchemyAPIKey      string
	GoPlusBaseURL      string // empty = production GoPlus API
	DexScreenerBaseURL string // empty = production DexScreener API
	FetchTimeout       time.Duration

	// Circuit breaker for upstream sources
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// Security
	RateLimitRPM int
	CORSOrigins  []string

	// Observability
	OTLPEndpoint string
}

const (
	DefaultPort             = "8080"
	DefaultEnv              = "development"
	DefaultLogLevel         = "info"
	DefaultFetchTimeoutMS   = 5000
	DefaultRateLimitRPM     = 120
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldownS = 30
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", DefaultPort),
		Env:                getEnv("ENV", DefaultEnv),
		LogLevel:           getEnv("LOG_LEVEL", DefaultLogLevel),
		AlchemyAPIKey:      os.Getenv("ALCHEMY_API_KEY"), // Required, no default
		GoPlusBaseURL:      os.Getenv("GOPLUS_BASE_URL"),
		DexScreenerBaseURL: os.Getenv("DEXSCREENER_BASE_URL"),
		FetchTimeout:       time.Duration(getEnvInt64("FETCH_TIMEOUT_MS", DefaultFetchTimeoutMS)) * time.Millisecond,
		BreakerThreshold:   int(getEnvInt64("BREAKER_THRESHOLD", DefaultBreakerThreshold)),
		BreakerCooldown:    time.Duration(getEnvInt64("BREAKER_COOLDOWN_S", DefaultBreakerCooldownS)) * time.Second,
		RateLimitRPM:       int(getEnvInt64("RATE_LIMIT_RPM", DefaultRateLimitRPM)),
		CORSOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.AlchemyAPIKey == "" {
		return fmt.Errorf("ALCHEMY_API_KEY is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_MS must be positive")
	}
	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive")
	}
	if c.GoPlusBaseURL != "" {
		if err := security.ValidateBaseURL(c.GoPlusBaseURL); err != nil {
			return fmt.Errorf("GOPLUS_BASE_URL: %w", err)
		}
	}
	if c.DexScreenerBaseURL != "" {
		if err := security.ValidateBaseURL(c.DexScreenerBaseURL); err != nil {
			return fmt.Errorf("DEXSCREENER_BASE_URL: %w", err)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
