package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/logging"
)

// ErrNoFrame is returned when ffmpeg exits cleanly but writes no image data,
// which happens when the seek position is at or beyond the last frame.
var ErrNoFrame = errors.New("ffmpeg produced no frame")

// GrabFrame runs ffmpeg once and decodes the single PNG frame it writes to
// stdout.
func GrabFrame(ctx context.Context, grab FrameGrab) (image.Image, error) {
	args := BuildFrameGrabArgs(grab)
	logging.Debug("running ffmpeg", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return nil, coreerr.NewCancelledError(ctx.Err())
		}
		return nil, coreerr.WrapExecError(Binary, err, lastLines(stderr.String(), 5))
	}

	if stdout.Len() == 0 {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoFrame, lastLines(msg, 3))
		}
		return nil, ErrNoFrame
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg frame: %w", err)
	}
	return img, nil
}

// IsAvailable reports whether the ffmpeg binary can be found on PATH.
func IsAvailable() bool {
	_, err := exec.LookPath(Binary)
	return err == nil
}

// lastLines returns at most n trailing non-empty lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
