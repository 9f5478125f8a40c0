// Package logging configures structured logging for the service and CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the logging configuration
type Config struct {
	Level      slog.Level
	FilePath   string // Optional log file; empty means stderr only
	MaxSize    int64  // MB per log file before rotation
	MaxBackups int
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      slog.LevelInfo,
		MaxSize:    50,
		MaxBackups: 3,
	}
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewLogger creates a JSON logger writing to stderr and, when FilePath is
// set, to a size-rotated log file as well.
func NewLogger(config Config) (*slog.Logger, error) {
	writer := io.Writer(os.Stderr)

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
			return nil, err
		}
		fileWriter, err := NewRotatingFileWriter(config.FilePath, config.MaxSize*1024*1024, config.MaxBackups)
		if err != nil {
			return nil, err
		}
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: config.Level})
	return slog.New(handler), nil
}

// SetDefault creates a logger from config and installs it as the process
// default.
func SetDefault(config Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
