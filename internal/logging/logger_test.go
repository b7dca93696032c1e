package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Config{Service: "loadplan-test", Level: "debug", Format: "json", Output: &buf})
	defer closer.Close()

	logger.Debug("planned", "units", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "planned", entry["msg"])
	assert.Equal(t, "loadplan-test", entry["service"])
	assert.Equal(t, float64(3), entry["units"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "time")
}

func TestNewTextLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "loadplan.log")
	logger, closer := New(Config{Level: "info", Format: "json", File: path, MaxSize: 1})

	logger.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestConfigFromApp(t *testing.T) {
	app := model.DefaultAppConfig()
	app.LogLevel = "debug"
	app.LogFile = "/tmp/x.log"

	cfg := ConfigFromApp("loadplan-server", app)
	assert.Equal(t, "loadplan-server", cfg.Service)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "/tmp/x.log", cfg.File)
	assert.Positive(t, cfg.MaxSize)
}
