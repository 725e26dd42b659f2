// Package log is the process-wide leveled logger for the document writer
// service, backed by log/slog.
package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var (
	levelVar slog.LevelVar

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar}))
)

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger
}

// SetLogger replaces the process logger, e.g. to redirect output in tests.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetLogLevel sets the minimum level from its textual name.
// Accepted values (case-insensitive): debug, info, warn, error, err.
func SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "info":
		levelVar.Set(slog.LevelInfo)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error", "err":
		levelVar.Set(slog.LevelError)
	default:
		return fmt.Errorf("invalid log level: %q", level)
	}
	return nil
}

func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}
