package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development)
	// In production the environment is set directly
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	warnings := []struct{ key, effect string }{
		{"FIREBASE_STORAGE_BUCKET", "image and attachment uploads will fail"},
		{"GOOGLE_APPLICATION_CREDENTIALS", "Firebase features may not work"},
		{"FRONTEND_URL", "CORS may not work correctly"},
		{"SMTP_HOST", "email notifications will not work"},
		{"SMTP_PORT", "email notifications will not work"},
		{"SMTP_FROM", "email notifications will not work"},
		{"REDIS_ADDRESS", "carts are kept in memory only"},
		{"RABBITMQ_URL", "events are only logged"},
	}
	for _, w := range warnings {
		if os.Getenv(w.key) == "" {
			log.Printf("WARNING: %s not set - %s", w.key, w.effect)
		}
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvAsDuration parses values such as "24h" or "90m".
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
