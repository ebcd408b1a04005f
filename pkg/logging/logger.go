package logging

import (
	"io"
	"log/slog"
	"os"
)

var logger *slog.Logger

func init() {
	// All diagnostics go to stderr; stdout may carry the generated
	// descriptor when the output path is "-".
	handler := NewCompactHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger = slog.New(handler)
}

// SetLevel changes the logging level
func SetLevel(level slog.Level) {
	handler := NewCompactHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
}

// SetOutput redirects log output at the given level. Used by tests to
// capture diagnostics.
func SetOutput(w io.Writer, level slog.Level) {
	handler := NewCompactHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
}

// Debug logs at DEBUG level (per-include resolution tracing)
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs at INFO level (user-facing operations)
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs at WARN level (recoverable per-item failures)
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs at ERROR level
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Fatal logs at ERROR level and exits with a non-zero status
func Fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
