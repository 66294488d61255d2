// Package errors provides structured error types for thumbr operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindOpen represents a video that cannot be opened or has no decodable video stream.
	KindOpen ErrorKind = iota
	// KindDecode represents a single frame that could not be decoded.
	KindDecode
	// KindSample represents a failed sampling run.
	KindSample
	// KindLayout represents a grid that does not fit the canvas.
	KindLayout
	// KindWrite represents output I/O failures.
	KindWrite
	// KindUnsupportedFormat represents an output extension with no encoder.
	KindUnsupportedFormat
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindCommand represents external command execution errors.
	KindCommand
	// KindFFprobeParse represents FFprobe output parsing errors.
	KindFFprobeParse
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindOpen:
		return "Open error"
	case KindDecode:
		return "Decode error"
	case KindSample:
		return "Sample error"
	case KindLayout:
		return "Layout error"
	case KindWrite:
		return "Write error"
	case KindUnsupportedFormat:
		return "Unsupported format"
	case KindConfig:
		return "Configuration error"
	case KindCommand:
		return "Command error"
	case KindFFprobeParse:
		return "FFprobe parse error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for thumbr operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewOpenError creates an error for a video that cannot be opened.
func NewOpenError(path, message string, underlying error) *CoreError {
	return &CoreError{Kind: KindOpen, Message: fmt.Sprintf("%s: %s", path, message), Underlying: underlying}
}

// NewDecodeError creates an error for a frame that could not be decoded at the given timestamp.
func NewDecodeError(path string, timestampSecs float64, message string, underlying error) *CoreError {
	return &CoreError{
		Kind:       KindDecode,
		Message:    fmt.Sprintf("%s at %.3fs: %s", path, timestampSecs, message),
		Underlying: underlying,
	}
}

// NewSampleError creates a sampling failure error.
func NewSampleError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindSample, Message: message, Underlying: underlying}
}

// NewLayoutError creates a grid/canvas mismatch error.
func NewLayoutError(message string) *CoreError {
	return &CoreError{Kind: KindLayout, Message: message}
}

// NewWriteError creates an output I/O error.
func NewWriteError(path, message string, underlying error) *CoreError {
	return &CoreError{Kind: KindWrite, Message: fmt.Sprintf("%s: %s", path, message), Underlying: underlying}
}

// NewUnsupportedFormatError creates an error for an output extension with no encoder.
func NewUnsupportedFormatError(path, ext string) *CoreError {
	return &CoreError{
		Kind:    KindUnsupportedFormat,
		Message: fmt.Sprintf("%s: extension %q is not supported (use .jpg, .jpeg or .png)", path, ext),
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewCommandError creates a new command execution error.
func NewCommandError(cmd string, kind CommandErrorKind, underlying error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       kind,
		Underlying: underlying,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandStart, err)
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewFFprobeParseError creates a new FFprobe parsing error.
func NewFFprobeParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindFFprobeParse, Message: message, Underlying: underlying}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError(underlying error) *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user", Underlying: underlying}
}

// IsKind checks if the error has the specified kind.
// Only the outermost CoreError in the chain is considered.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost CoreError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind, true
	}
	return 0, false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
