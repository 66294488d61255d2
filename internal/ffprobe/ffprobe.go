// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"gopkg.in/Knetic/govaluate.v2"

	coreerr "github.com/five82/thumbr/internal/errors"
)

// Binary is the ffprobe executable name.
const Binary = "ffprobe"

// VideoInfo contains the properties of the first video stream plus container
// level duration and size.
type VideoInfo struct {
	DurationSecs float64
	Width        int
	Height       int
	FrameRate    float64
	FrameCount   int64 // 0 when the container does not report nb_frames
	CodecName    string
	FormatName   string
	SizeBytes    int64
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int64  `json:"width"`
	Height       int64  `json:"height"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Disposition  struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

// runFFprobe executes ffprobe and returns its raw JSON output.
func runFFprobe(ctx context.Context, inputPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, Binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, coreerr.NewCancelledError(ctx.Err())
		}
		return nil, coreerr.WrapExecError(Binary, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// parseFFprobeOutput decodes ffprobe's JSON document.
func parseFFprobeOutput(data []byte) (*ffprobeOutput, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, coreerr.NewFFprobeParseError("failed to parse ffprobe output", err)
	}
	return &result, nil
}

// GetVideoInfo probes inputPath and returns its video properties.
func GetVideoInfo(ctx context.Context, inputPath string) (*VideoInfo, error) {
	data, err := runFFprobe(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	probe, err := parseFFprobeOutput(data)
	if err != nil {
		return nil, err
	}

	return extractVideoInfo(probe, inputPath)
}

// extractVideoInfo selects the first real video stream (cover art is
// skipped) and converts the string fields ffprobe reports.
func extractVideoInfo(probe *ffprobeOutput, inputPath string) (*VideoInfo, error) {
	var videoStream *ffprobeStream
	for i := range probe.Streams {
		s := &probe.Streams[i]
		if s.CodecType == "video" && s.Disposition.AttachedPic == 0 {
			videoStream = s
			break
		}
	}

	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found in %s", inputPath)
	}

	if videoStream.Width <= 0 || videoStream.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions in %s: %dx%d", inputPath, videoStream.Width, videoStream.Height)
	}

	info := &VideoInfo{
		Width:      int(videoStream.Width),
		Height:     int(videoStream.Height),
		CodecName:  videoStream.CodecName,
		FormatName: probe.Format.FormatName,
	}

	// Container duration first, stream duration as fallback
	for _, d := range []string{probe.Format.Duration, videoStream.Duration} {
		if d == "" || d == "N/A" {
			continue
		}
		secs, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return nil, coreerr.NewFFprobeParseError(fmt.Sprintf("failed to parse duration %q", d), err)
		}
		info.DurationSecs = secs
		break
	}

	if probe.Format.Size != "" {
		if size, err := strconv.ParseInt(probe.Format.Size, 10, 64); err == nil {
			info.SizeBytes = size
		}
	}

	if videoStream.NbFrames != "" {
		if frames, err := strconv.ParseInt(videoStream.NbFrames, 10, 64); err == nil && frames > 0 {
			info.FrameCount = frames
		}
	}

	// avg_frame_rate reflects variable frame rate content better than
	// r_frame_rate, but is 0/0 for some raw streams.
	for _, r := range []string{videoStream.AvgFrameRate, videoStream.RFrameRate} {
		if fps, err := ParseFrameRate(r); err == nil && fps > 0 {
			info.FrameRate = fps
			break
		}
	}

	return info, nil
}

// ParseFrameRate evaluates an ffprobe rational such as "30000/1001" or a
// plain number. "0/0" and empty strings are rejected.
func ParseFrameRate(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0/0" || value == "N/A" {
		return 0, fmt.Errorf("frame rate not available")
	}

	expr, err := govaluate.NewEvaluableExpression(value)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", value, err)
	}

	result, err := expr.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", value, err)
	}

	fps, ok := result.(float64)
	if !ok || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0, fmt.Errorf("invalid frame rate %q", value)
	}
	return fps, nil
}

// IsAvailable reports whether the ffprobe binary can be found on PATH.
func IsAvailable() bool {
	_, err := exec.LookPath(Binary)
	return err == nil
}
