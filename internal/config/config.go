package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultOwnerID is the placeholder principal used until real authentication exists.
const DefaultOwnerID = "00000000-0000-0000-0000-000000000000"

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LogLevel    string

	DefaultOwnerID uuid.UUID
	APIKeyPrefix   string
	CORSOrigins    []string

	Usage UsageConfig
}

type UsageConfig struct {
	QueueSize int
	Timeout   time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		return nil, fmt.Errorf("required environment variable not set: DATABASE_URL")
	}

	ownerID, err := uuid.Parse(getEnv("DEFAULT_USER_ID", DefaultOwnerID))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_USER_ID must be a uuid: %w", err)
	}

	queueSize, err := strconv.Atoi(getEnv("USAGE_QUEUE_SIZE", "256"))
	if err != nil || queueSize <= 0 {
		queueSize = 256
	}

	usageTimeout, err := time.ParseDuration(getEnv("USAGE_TIMEOUT", "5s"))
	if err != nil || usageTimeout <= 0 {
		usageTimeout = 5 * time.Second
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: databaseURL,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DefaultOwnerID: ownerID,
		APIKeyPrefix:   getEnv("API_KEY_PREFIX", "sk_"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),

		Usage: UsageConfig{
			QueueSize: queueSize,
			Timeout:   usageTimeout,
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
