package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port                 string
	Env                  string
	LogLevel             string
	Debug                bool
	StoreURL             string
	StoreAnonKey         string
	PaymentWebhookSecret string
	CORSAllowedOrigins   []string
	RateLimitPerSecond   float64
	RateLimitBurst       int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                 getEnv("PORT", "3333"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Debug:                getEnvAsBool("DEBUG", false),
		StoreURL:             strings.TrimRight(getEnv("STORE_URL", ""), "/"),
		StoreAnonKey:         getEnv("STORE_ANON_KEY", ""),
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", "dev-secret"),
		CORSAllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),
		RateLimitPerSecond:   getEnvAsFloat("RATE_LIMIT_PER_SECOND", 25),
		RateLimitBurst:       getEnvAsInt("RATE_LIMIT_BURST", 50),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	// Accept the legacy "1"/"0" toggles used by deployment scripts.
	if valueStr == "1" {
		return true
	}
	if valueStr == "0" {
		return false
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable into trimmed entries.
func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
