package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Assessment backend (grading oracle, bootstrap, results).
	BackendURL     string
	BackendTimeout time.Duration

	// Snapshot store for session re-attach.
	RedisURL    string
	SnapshotTTL time.Duration

	// Journal database. Empty disables archiving.
	DatabaseURL string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine in containerized deployments.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:9090"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 15*time.Second),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		SnapshotTTL:    getDuration("SNAPSHOT_TTL", 6*time.Hour),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Events: EventConfig{
			Enabled:      getBool("EVENTS_ENABLED", false),
			Publisher:    getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			SessionTopic: getEnv("SESSION_TOPIC", "assessment-sessions"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
