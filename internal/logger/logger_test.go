package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/adventure-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ProductionUsesJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)
	WithError(log, errors.New("boom")).Info("room loaded", "exits", 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "room loaded", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, float64(2), entry["exits"])
}

func TestSetup_RespectsLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("line\n")
	assert.NoError(t, err)
}
