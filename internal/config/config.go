package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backend names accepted by STORAGE_BACKEND
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
	StorageBackendRedis    = "redis"
	StorageBackendMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	ServerPort        string
	FrontendURL       string
	StorageBackend    string
	DataDir           string
	DatabaseURL       string
	RedisURL          string
	OpenAIKey         string
	AIModel           string
	AIBaseURL         string
	ClassifierTimeout int // seconds
	WorkdayEndHour    int
	WorkdayEndMinute  int
	RateLimit         string
	ServerDebugMode   bool
	OTELEnabled       bool
	OTELEndpoint      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		StorageBackend:    getEnv("STORAGE_BACKEND", StorageBackendFile),
		DataDir:           getEnv("DATA_DIR", "./data"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
		AIModel:           getEnv("AI_MODEL", ""),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		ClassifierTimeout: getEnvInt("CLASSIFIER_TIMEOUT_SECONDS", 15),
		WorkdayEndHour:    getEnvInt("WORKDAY_END_HOUR", 17),
		WorkdayEndMinute:  getEnvInt("WORKDAY_END_MINUTE", 0),
		RateLimit:         getEnv("RATE_LIMIT", "10-M"),
		ServerDebugMode:   getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:       getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	switch cfg.StorageBackend {
	case StorageBackendFile, StorageBackendMemory:
	case StorageBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case StorageBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND: %q", cfg.StorageBackend)
	}

	if cfg.WorkdayEndHour < 0 || cfg.WorkdayEndHour > 23 {
		return nil, fmt.Errorf("WORKDAY_END_HOUR must be between 0 and 23, got %d", cfg.WorkdayEndHour)
	}
	if cfg.WorkdayEndMinute < 0 || cfg.WorkdayEndMinute > 59 {
		return nil, fmt.Errorf("WORKDAY_END_MINUTE must be between 0 and 59, got %d", cfg.WorkdayEndMinute)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
