package ffmpeg

import (
	"strconv"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// Binary is the ffmpeg executable name.
const Binary = "ffmpeg"

// FrameGrab describes a single-frame extraction.
type FrameGrab struct {
	InputPath     string
	TimestampSecs float64
	MaxWidth      int // 0 keeps the native frame width
}

// BuildFrameGrabArgs returns the ffmpeg arguments that seek to the requested
// timestamp and write exactly one PNG-encoded frame to stdout.
//
// The seek is an input option so ffmpeg jumps to the nearest keyframe and
// decodes forward, which is fast and frame accurate.
func BuildFrameGrabArgs(grab FrameGrab) []string {
	outputArgs := ffmpeggo.KwArgs{
		"frames:v": 1,
		"f":        "image2pipe",
		"vcodec":   "png",
	}

	if vf := NewVideoFilterChain().AddScale(grab.MaxWidth).Build(); vf != "" {
		outputArgs["vf"] = vf
	}

	stream := ffmpeggo.
		Input(grab.InputPath, ffmpeggo.KwArgs{"ss": formatSeconds(grab.TimestampSecs)}).
		Output("pipe:", outputArgs)

	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
	return append(args, stream.GetArgs()...)
}

// formatSeconds renders a timestamp with millisecond precision.
func formatSeconds(secs float64) string {
	return strconv.FormatFloat(secs, 'f', 3, 64)
}
