// Package config loads the client configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the CLI needs to talk to the budgeting API.
type Config struct {
	// APIURL is the base URL of the budgeting API.
	APIURL string

	// Token is the bearer token issued at login.
	Token string

	// HTTPTimeout bounds each request to the API.
	HTTPTimeout time.Duration

	// MetricsAddr, when set, is the listen address for the /metrics endpoint.
	MetricsAddr string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Non-fatal if missing.
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnvDefault("HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		APIURL:      os.Getenv("BUDGETING_API_URL"),
		Token:       os.Getenv("BUDGETING_TOKEN"),
		HTTPTimeout: timeout,
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("BUDGETING_API_URL is required")
	}
	if parsed, err := url.Parse(cfg.APIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("BUDGETING_API_URL %q is not a valid URL", cfg.APIURL)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("BUDGETING_TOKEN is required")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
