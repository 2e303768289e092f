// Package config loads Ascender's runtime configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// App Store Connect API credentials
	KeyID          string
	IssuerID       string
	PrivateKeyPath string
	PrivateKey     string

	// Target application
	BundleID string
	Platform string

	// Transport
	BaseURL                 string
	HTTPTimeout             time.Duration
	MaxRetries              int
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		KeyID:          getEnv("ASC_KEY_ID", ""),
		IssuerID:       getEnv("ASC_ISSUER_ID", ""),
		PrivateKeyPath: getEnv("ASC_PRIVATE_KEY_PATH", ""),
		PrivateKey:     getEnv("ASC_PRIVATE_KEY", ""),

		BundleID: getEnv("ASC_BUNDLE_ID", ""),
		Platform: getEnv("ASC_PLATFORM", "ios"),

		BaseURL:                 getEnv("ASC_BASE_URL", ""),
		HTTPTimeout:             getDurationEnv("ASC_HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:              getIntEnv("ASC_MAX_RETRIES", 3),
		BreakerFailureThreshold: getIntEnv("ASC_BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:          getDurationEnv("ASC_BREAKER_TIMEOUT", 30*time.Second),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ReadPrivateKey returns the PEM-encoded API key, preferring the inline
// value over the key file.
func (c *Config) ReadPrivateKey() ([]byte, error) {
	if c.PrivateKey != "" {
		return []byte(c.PrivateKey), nil
	}
	if c.PrivateKeyPath == "" {
		return nil, fmt.Errorf("neither ASC_PRIVATE_KEY nor ASC_PRIVATE_KEY_PATH is set")
	}
	key, err := os.ReadFile(c.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key file: %w", err)
	}
	return key, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
