// Package logging provides structured logging infrastructure for thumbr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level aliases for slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is a text slog logger. Library code logs through the package-level
// functions, which write to the global Logger.
type Logger struct {
	*slog.Logger
}

// New returns a logger writing key=value lines at or above level to w.
// A nil w discards everything.
func New(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

var (
	globalMu sync.RWMutex
	global   = New(os.Stderr, LevelWarn)
)

// Global returns the logger used by the package-level functions. Until a run
// log is set up it prints warnings and errors to stderr.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetGlobal replaces the global logger. A nil logger discards all output.
func SetGlobal(logger *Logger) {
	if logger == nil {
		logger = New(nil, LevelError)
	}
	globalMu.Lock()
	global = logger
	globalMu.Unlock()
}

// Debug logs a debug message to the global logger.
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs an informational message to the global logger.
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs a warning message to the global logger.
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}

// Error logs an error message to the global logger.
func Error(msg string, args ...any) {
	Global().Error(msg, args...)
}
