// Package oteladapters provides OpenTelemetry-backed implementations of the
// library observability interfaces, for users who want plug-and-play
// logging and metrics without writing the adapters themselves.
package oteladapters

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/bookhaven/libraryapi/library"
)

// SlogLogger implements library.Logger on top of a slog.Logger.
// Built with NewSlogBridgeLogger it emits through the OpenTelemetry slog
// bridge with automatic trace correlation; built with NewSlogLogger it uses
// whatever handler the given logger carries.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a logger emitting through the OpenTelemetry
// slog bridge. It uses the global OpenTelemetry LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogLogger {
	return &SlogLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogLogger wraps an existing slog.Logger as a library.Logger.
// No OpenTelemetry integration is added; the logger is used as-is.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an info message.
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error message.
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Ensure SlogLogger implements library.Logger.
var _ library.Logger = (*SlogLogger)(nil)
