package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so no stray .env is read.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{"API_BASE_URL", "API_KEY", "API_TIMEOUT", "EXIT_LOOK_DELAY", "ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "REDIS_URL", "EVENTS_CHANNEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 2*time.Second, cfg.ExitLookDelay)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, "adventure:events", cfg.EventsChannel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("API_BASE_URL", "https://game.example.com")
	t.Setenv("API_KEY", "abc123")
	t.Setenv("EXIT_LOOK_DELAY", "500ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://game.example.com", cfg.APIBaseURL)
	assert.Equal(t, "abc123", cfg.APIKey)
	assert.Equal(t, 500*time.Millisecond, cfg.ExitLookDelay)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("API_KEY", "")
	t.Setenv("EXIT_LOOK_DELAY", "")
	// godotenv never overrides variables already set, so make sure these are unset
	require.NoError(t, os.Unsetenv("API_KEY"))
	require.NoError(t, os.Unsetenv("EXIT_LOOK_DELAY"))

	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("API_KEY=from-dotenv\nEXIT_LOOK_DELAY=3s\n"), 0o600)
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.APIKey)
	assert.Equal(t, 3*time.Second, cfg.ExitLookDelay)
}

func TestLoad_InvalidDuration(t *testing.T) {
	chdirTemp(t)
	t.Setenv("API_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_TIMEOUT")
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLogLevel(input), input)
	}
}
