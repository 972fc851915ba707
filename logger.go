package kerngo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with kerngo-specific helpers.
// It provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(d int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", d),
	}
}

// WithBatch adds a batch size field to the logger.
func (l *Logger) WithBatch(ny int) *Logger {
	return &Logger{
		Logger: l.Logger.With("ny", ny),
	}
}

// logger is the package-level logger. Validation failures are recorded
// at Debug; everything else is silent. Replace it with SetLogger.
var logger = NoopLogger()

// SetLogger replaces the package-level logger. Passing nil restores the
// no-op logger. Not safe for concurrent use with in-flight calls; set
// it once during startup.
func SetLogger(l *Logger) {
	if l == nil {
		l = NoopLogger()
	}
	logger = l
}

// fail records a validation failure and returns the error unchanged.
func fail(err error) error {
	logger.Debug("validation failed", "error", err)
	return err
}
