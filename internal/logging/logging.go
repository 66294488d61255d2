package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog is a timestamped log file for a single thumbr invocation. While
// open it is also the destination of the global slog logger.
type RunLog struct {
	file     *os.File
	filePath string
	previous *Logger
}

// Setup creates a timestamped run log in logDir and points the global logger
// at it. Returns nil if logging is disabled (noLog=true).
func Setup(logDir string, verbose, noLog bool) (*RunLog, error) {
	if noLog {
		return nil, nil
	}

	// Create log directory
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	// Generate timestamped filename
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("thumbr_run_%s.log", timestamp)
	filePath := filepath.Join(logDir, filename)

	// Open log file
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	l := &RunLog{
		file:     file,
		filePath: filePath,
		previous: Global(),
	}
	SetGlobal(New(file, level))

	// Log startup
	Info("thumbr starting")
	if verbose {
		Debug("debug level logging enabled")
	}
	Info("log file", "path", filePath)

	return l, nil
}

// Close restores the previous global logger and closes the log file.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	if l.previous != nil {
		SetGlobal(l.previous)
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// FilePath returns the path to the log file.
func (l *RunLog) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}
