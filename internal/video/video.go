// Package video opens video files and decodes single frames at arbitrary
// timestamps.
package video

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/ffmpeg"
	"github.com/five82/thumbr/internal/ffprobe"
	"github.com/five82/thumbr/internal/logging"
)

// Metadata is the read-only description of an opened video.
type Metadata struct {
	Path          string
	Filename      string
	DurationSecs  float64
	Width         int
	Height        int
	FrameRate     float64
	FrameCount    int64 // Container frame count, or floor(duration*fps) when unknown
	FileSizeBytes int64
	CodecName     string
	Decoder       config.Decoder // Backend that opened the file
}

// AspectRatio returns width/height of the video frames.
func (m Metadata) AspectRatio() float64 {
	if m.Height == 0 {
		return 0
	}
	return float64(m.Width) / float64(m.Height)
}

// SampledFrame is one decoded frame.
type SampledFrame struct {
	Index         int
	TimestampSecs float64
	Image         *image.RGBA
}

// Accessor is an open video decoding session.
type Accessor interface {
	// Metadata returns the properties read when the video was opened.
	Metadata() Metadata
	// SeekAndDecode decodes the frame displayed at timestampSecs.
	SeekAndDecode(ctx context.Context, timestampSecs float64) (*SampledFrame, error)
	// Close releases the decoder. It is safe to call more than once.
	Close() error
}

// Options selects and tunes the decoding backend.
type Options struct {
	Decoder        config.Decoder
	MaxDecodeWidth int
}

// nativeExtensions lists the containers the pure-Go decoder can read.
var nativeExtensions = []string{".mpg", ".mpeg", ".m1v"}

// IsNativeFormat reports whether path has an extension the native MPEG-1
// decoder handles.
func IsNativeFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range nativeExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open opens path with the configured backend and reads its metadata.
func Open(ctx context.Context, path string, opts Options) (Accessor, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, coreerr.NewOpenError(path, "file not found", err)
		}
		return nil, coreerr.NewOpenError(path, "cannot access file", err)
	}
	if info.IsDir() {
		return nil, coreerr.NewOpenError(path, "is a directory", nil)
	}

	backend, err := resolveDecoder(path, opts.Decoder, ffmpeg.IsAvailable() && ffprobe.IsAvailable())
	if err != nil {
		return nil, err
	}
	logging.Debug("opening video", "path", path, "decoder", string(backend))

	if backend == config.DecoderNative {
		return openNative(path, info.Size(), opts)
	}
	return openFFmpeg(ctx, path, info.Size(), opts)
}

// resolveDecoder turns the requested decoder into a concrete backend.
func resolveDecoder(path string, requested config.Decoder, haveFFmpeg bool) (config.Decoder, error) {
	switch requested {
	case config.DecoderFFmpeg:
		if !haveFFmpeg {
			return "", coreerr.NewOpenError(path, "ffmpeg decoder requested but ffmpeg/ffprobe were not found on PATH", nil)
		}
		return config.DecoderFFmpeg, nil
	case config.DecoderNative:
		return config.DecoderNative, nil
	case config.DecoderAuto, "":
		if haveFFmpeg {
			return config.DecoderFFmpeg, nil
		}
		if IsNativeFormat(path) {
			return config.DecoderNative, nil
		}
		return "", coreerr.NewOpenError(path,
			"ffmpeg and ffprobe were not found on PATH and the file is not MPEG-1 (.mpg/.mpeg)", nil)
	default:
		return "", coreerr.NewOpenError(path, fmt.Sprintf("unknown decoder %q", requested), nil)
	}
}

// finalizeMetadata fills derived fields and rejects videos nothing can be
// sampled from.
func finalizeMetadata(meta *Metadata) error {
	meta.Filename = filepath.Base(meta.Path)

	if meta.Width <= 0 || meta.Height <= 0 {
		return coreerr.NewOpenError(meta.Path, fmt.Sprintf("invalid frame dimensions %dx%d", meta.Width, meta.Height), nil)
	}
	if meta.DurationSecs <= 0 || math.IsNaN(meta.DurationSecs) || math.IsInf(meta.DurationSecs, 0) {
		return coreerr.NewOpenError(meta.Path, fmt.Sprintf("invalid duration %v", meta.DurationSecs), nil)
	}
	if meta.FrameCount <= 0 && meta.FrameRate > 0 {
		meta.FrameCount = int64(math.Floor(meta.DurationSecs * meta.FrameRate))
	}
	return nil
}

// checkTimestamp rejects timestamps outside [0, duration).
func checkTimestamp(meta Metadata, timestampSecs float64) error {
	if timestampSecs < 0 || timestampSecs >= meta.DurationSecs || math.IsNaN(timestampSecs) {
		return coreerr.NewDecodeError(meta.Path, timestampSecs,
			fmt.Sprintf("timestamp outside [0, %.3f)", meta.DurationSecs), nil)
	}
	return nil
}

// ToRGBA copies img into a new RGBA image anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
