// Package logging builds the slog loggers used by the LoadPlan binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	Service    string
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json" or "text"
	File       string // Empty writes to Output
	MaxSize    int    // MB per log file before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	Output     io.Writer // Defaults to stderr
}

// ConfigFromApp derives a logger Config from the application config.
func ConfigFromApp(service string, cfg model.AppConfig) Config {
	return Config{
		Service:    service,
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger. With a File set, output goes through a rotating
// lumberjack writer and the returned closer must be closed on shutdown.
func New(cfg Config) (*slog.Logger, io.Closer) {
	var w io.Writer = cfg.Output
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		w, closer = lj, lj
	}
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "timestamp"
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With(slog.String("service", cfg.Service))
	}
	return logger, closer
}

// Setup creates a logger and installs it as the slog default.
func Setup(cfg Config) io.Closer {
	logger, closer := New(cfg)
	slog.SetDefault(logger)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
