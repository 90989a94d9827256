package types

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration shared by the HTTP client, the store
// adapters, the search orchestrator and the server. It is built once at
// startup and passed around by pointer; nothing mutates it afterwards.
type Config struct {
	APIKey       string
	BaseURL      string
	AmazonDomain string
	UsdToInr     float64
	Timeout      time.Duration
	MaxResults   int

	// Outbound pacing for the search API
	UpstreamRatePerSec float64
	UpstreamBurst      int

	Port              string
	InboundRatePerSec float64
	InboundBurst      int
	UserAgent         string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://serpapi.com/search.json",
		AmazonDomain:       "amazon.in",
		UsdToInr:           83.5,
		Timeout:            10 * time.Second,
		MaxResults:         9,
		UpstreamRatePerSec: 5,
		UpstreamBurst:      10,
		Port:               "8080",
		InboundRatePerSec:  10,
		InboundBurst:       30,
		UserAgent:          "price-comparison-app/1.0",
	}
}

// LoadConfig loads a .env file if present and overlays environment
// variables on top of DefaultConfig.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("API_KEY")
	cfg.BaseURL = getEnv("SERPAPI_BASE_URL", cfg.BaseURL)
	cfg.AmazonDomain = getEnv("AMAZON_DOMAIN", cfg.AmazonDomain)
	cfg.UsdToInr = getEnvFloat("USD_TO_INR", cfg.UsdToInr)
	cfg.Timeout = getEnvDuration("REQUEST_TIMEOUT", cfg.Timeout)
	if n := getEnvInt("MAX_RESULTS", cfg.MaxResults); n > 0 {
		cfg.MaxResults = n
	}
	cfg.UpstreamRatePerSec = getEnvFloat("UPSTREAM_RATE_PER_SEC", cfg.UpstreamRatePerSec)
	cfg.UpstreamBurst = getEnvInt("UPSTREAM_BURST", cfg.UpstreamBurst)
	cfg.Port = getEnv("API_PORT", cfg.Port)
	cfg.InboundRatePerSec = getEnvFloat("INBOUND_RATE_PER_SEC", cfg.InboundRatePerSec)
	cfg.InboundBurst = getEnvInt("INBOUND_BURST", cfg.InboundBurst)
	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
