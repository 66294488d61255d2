package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindOpen, "Open error"},
		{KindDecode, "Decode error"},
		{KindSample, "Sample error"},
		{KindLayout, "Layout error"},
		{KindWrite, "Write error"},
		{KindUnsupportedFormat, "Unsupported format"},
		{KindConfig, "Configuration error"},
		{KindCommand, "Command error"},
		{KindFFprobeParse, "FFprobe parse error"},
		{KindNoFilesFound, "No files found"},
		{KindCancelled, "Operation cancelled"},
		{ErrorKind(99), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := &CoreError{
		Kind:       KindWrite,
		Message:    "out.jpg: cannot create",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "Write error: out.jpg: cannot create: permission denied"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindLayout,
		Message: "cell width is 0",
	}
	if got := err2.Error(); got != "Layout error: cell width is 0" {
		t.Errorf("CoreError.Error() = %v", got)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{Kind: KindDecode, Message: "test", Underlying: underlying}

	if err.Unwrap() != underlying {
		t.Error("Unwrap() should return underlying error")
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindOpen, Message: "a"}
	err2 := &CoreError{Kind: KindOpen, Message: "b"}
	err3 := &CoreError{Kind: KindWrite, Message: "c"}

	if !err1.Is(err2) {
		t.Error("Same kind errors should match")
	}
	if err1.Is(err3) {
		t.Error("Different kind errors should not match")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err1), &CoreError{Kind: KindOpen}) {
		t.Error("errors.Is should match kind through wrapping")
	}
}

func TestConstructorsCarryContext(t *testing.T) {
	t.Run("NewOpenError", func(t *testing.T) {
		err := NewOpenError("/videos/a.mp4", "no video stream", nil)
		if err.Kind != KindOpen {
			t.Errorf("Expected KindOpen, got %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "/videos/a.mp4") {
			t.Errorf("message should contain path: %v", err)
		}
	})

	t.Run("NewDecodeError", func(t *testing.T) {
		err := NewDecodeError("a.mp4", 33.3333, "no frame", nil)
		if err.Kind != KindDecode {
			t.Errorf("Expected KindDecode, got %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "33.333s") {
			t.Errorf("message should contain timestamp: %v", err)
		}
	})

	t.Run("NewSampleError wraps decode error", func(t *testing.T) {
		decodeErr := NewDecodeError("a.mp4", 1, "corrupt", nil)
		err := NewSampleError("frame 2 of 9", decodeErr)
		if !IsKind(err, KindSample) {
			t.Error("outermost kind should be KindSample")
		}
		if !errors.Is(err, &CoreError{Kind: KindDecode}) {
			t.Error("decode cause should be reachable through errors.Is")
		}
	})

	t.Run("NewUnsupportedFormatError", func(t *testing.T) {
		err := NewUnsupportedFormatError("out.bmp", ".bmp")
		if err.Kind != KindUnsupportedFormat {
			t.Errorf("Expected KindUnsupportedFormat, got %v", err.Kind)
		}
		if !strings.Contains(err.Error(), ".bmp") {
			t.Errorf("message should name the extension: %v", err)
		}
	})

	t.Run("NewNoFilesFoundError", func(t *testing.T) {
		err := NewNoFilesFoundError("/test/dir")
		if err.Kind != KindNoFilesFound {
			t.Errorf("Expected KindNoFilesFound, got %v", err.Kind)
		}
	})
}

func TestCommandError(t *testing.T) {
	startErr := &CommandError{
		Command:    "ffmpeg",
		Kind:       CommandStart,
		Underlying: errors.New("not found"),
	}
	if got := startErr.Error(); got != "failed to execute ffmpeg: not found" {
		t.Errorf("CommandStart error = %v", got)
	}

	failedErr := &CommandError{
		Command:  "ffprobe",
		Kind:     CommandFailed,
		ExitCode: 1,
		Stderr:   "Invalid data found when processing input",
	}
	expected := "command ffprobe failed with exit code 1: Invalid data found when processing input"
	if got := failedErr.Error(); got != expected {
		t.Errorf("CommandFailed error = %v, want %v", got, expected)
	}
}

func TestIsKind(t *testing.T) {
	err := NewLayoutError("test")

	if !IsKind(err, KindLayout) {
		t.Error("IsKind should return true for matching kind")
	}
	if IsKind(err, KindWrite) {
		t.Error("IsKind should return false for non-matching kind")
	}
	if IsKind(errors.New("plain error"), KindLayout) {
		t.Error("IsKind should return false for non-CoreError")
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("ctx: %w", NewWriteError("x.png", "disk full", nil)))
	if !ok || kind != KindWrite {
		t.Errorf("KindOf() = %v, %v; want KindWrite, true", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf should report false for non-CoreError")
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(NewCancelledError(nil)) {
		t.Error("IsCancelled should return true for cancelled error")
	}
	if IsCancelled(NewConfigError("test", nil)) {
		t.Error("IsCancelled should return false for non-cancelled error")
	}
}
