package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port    string
	BaseURL string

	// Database configuration
	DBPath string

	// Registration allow-list seeded at startup (comma-separated emails)
	AuthorizedEmails []string
}

// Load loads configuration from a .env file (if present) and the environment
func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		BaseURL:          getEnv("KBASE_BASE_URL", "http://localhost:8080"),
		DBPath:           getEnv("KBASE_DB_PATH", "kbase.db"),
		AuthorizedEmails: splitList(os.Getenv("KBASE_AUTHORIZED_EMAILS")),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
