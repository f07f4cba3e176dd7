package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	TokenSecret string        // Required: base64-encoded HS256 signing secret (min 32 bytes decoded)
	TokenTTL    time.Duration // Optional: access token lifetime (default: 24h)

	DatabaseFile          string        // Optional: path to SQLite database file (default: ./notes.db)
	Env                   string        // Environment (dev, staging, prod) (default: dev)
	LogLevel              string        // Log level (debug, info, warn, error) (default: info)
	LogFormat             string        // Log format (json, text) (default: json)
	Port                  int           // HTTP server port (default: 8080)
	ShutdownGracePeriod   time.Duration // Graceful shutdown timeout (default: 10s)
	ReminderSweepInterval time.Duration // Reminder sweep interval (default: 1m)
}

func LoadConfig() Config {
	return Config{
		TokenSecret:           os.Getenv("NOTES_TOKEN_SECRET"),
		TokenTTL:              getEnvDurationOrDefault("NOTES_TOKEN_TTL", 24*time.Hour),
		DatabaseFile:          getEnvOrDefault("NOTES_DATABASE_FILE", "notes.db"),
		Env:                   getEnvOrDefault("ENV", "dev"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:             getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                  getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:   getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		ReminderSweepInterval: getEnvDurationOrDefault("REMINDER_SWEEP_INTERVAL", time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer milliseconds, the unit older deployments used
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	return defaultValue
}
