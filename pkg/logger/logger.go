// Package logger provides structured logging for codeaudit.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
)

// LogFilePermissions is the mode used when creating log files.
const LogFilePermissions = 0o600

// Logger is the structured logging interface library packages depend on.
type Logger interface {
	// Debug logs per-rule and per-file tracing.
	Debug(msg string, keysAndValues ...any)

	// Info logs run-level progress.
	Info(msg string, keysAndValues ...any)

	// Error logs recovered failures.
	Error(msg string, keysAndValues ...any)

	// With returns a logger that adds keysAndValues to every entry.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of log/slog with CustomHandler.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level Level) *SlogAdapter {
	h := NewWriterHandler(w, level)

	return &SlogAdapter{logger: slog.New(h), handler: h}
}

// NewFileLogger creates a logger appending to the file at path.
func NewFileLogger(path string, level Level) (*SlogAdapter, error) {
	//nolint:gosec // path comes from the --log-file flag
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return New(f, level), nil
}

// NewStderrLogger creates a logger writing to standard error.
func NewStderrLogger(level Level) *SlogAdapter {
	return New(os.Stderr, level)
}

// Debug logs at debug level.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs at info level.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs at error level.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a child logger with extra attributes.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{logger: l.logger.With(keysAndValues...), handler: l.handler}
}

// Close closes the underlying writer when it is a file.
func (l *SlogAdapter) Close() error {
	return l.handler.Close()
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
