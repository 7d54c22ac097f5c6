package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL    string
	APIKey        string
	APITimeout    time.Duration
	ExitLookDelay time.Duration
	Environment   string
	LogLevel      slog.Level
	LogFile       string // console logs here because the TUI owns stdout
	RedisURL      string // empty disables event broadcasting
	EventsChannel string
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	apiTimeout, err := parseDuration("API_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	exitLookDelay, err := parseDuration("EXIT_LOOK_DELAY", "2s")
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8080"),
		APIKey:        getEnv("API_KEY", ""),
		APITimeout:    apiTimeout,
		ExitLookDelay: exitLookDelay,
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:       getEnv("LOG_FILE", "adventure-console.log"),
		RedisURL:      getEnv("REDIS_URL", ""),
		EventsChannel: getEnv("EVENTS_CHANNEL", "adventure:events"),
	}, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnv(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
