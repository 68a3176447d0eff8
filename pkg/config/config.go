// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. The simulation core
// itself takes only value parameters; everything here configures the
// surrounding collaborators (API server, market data client, reporting).
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Market data
	Binance BinanceConfig

	// Reporting
	ReportDir string

	// Logging
	LogLevel  string
	LogFormat string // json or console
}

// BinanceConfig holds the Binance market data client configuration.
type BinanceConfig struct {
	// BaseURL is the market-data-only host recommended by Binance for
	// public endpoints.
	BaseURL string
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
	// RateLimitRPS caps outgoing requests per second.
	RateLimitRPS float64
	// MaxRetries bounds retry attempts on 429/418 and transient failures.
	MaxRetries int
}

// Load reads configuration from environment variables. A .env file in the
// working directory or its parent is honored when present.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8097"),
		Env:  getEnv("ENV", "development"),

		Binance: BinanceConfig{
			BaseURL:      getEnv("BINANCE_BASE_URL", "https://data-api.binance.vision"),
			Timeout:      getEnvAsDuration("BINANCE_TIMEOUT", "30s"),
			RateLimitRPS: getEnvAsFloat("BINANCE_RATE_LIMIT_RPS", 5),
			MaxRetries:   getEnvAsInt("BINANCE_MAX_RETRIES", 6),
		},

		ReportDir: getEnv("REPORT_DIR", "reports"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

// loadEnvFile tries a few likely locations; missing files are fine.
func loadEnvFile() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsDuration(key, fallback string) time.Duration {
	v := getEnv(key, fallback)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
