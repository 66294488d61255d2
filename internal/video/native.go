package video

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gen2brain/mpeg"
	"github.com/nfnt/resize"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/logging"
)

// nativeAccessor decodes MPEG-1 program streams in process.
type nativeAccessor struct {
	file     *os.File
	mpg      *mpeg.MPEG
	meta     Metadata
	maxWidth int
}

func openNative(path string, fileSize int64, opts Options) (Accessor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, coreerr.NewOpenError(path, "cannot open file", err)
	}

	mpg, err := mpeg.New(file)
	if err != nil {
		file.Close()
		return nil, coreerr.NewOpenError(path, "not a decodable MPEG-1 stream", err)
	}

	if !mpg.HasHeaders() || mpg.NumVideoStreams() == 0 {
		file.Close()
		return nil, coreerr.NewOpenError(path, "no video stream found", nil)
	}
	mpg.SetAudioEnabled(false)

	meta := Metadata{
		Path:          path,
		DurationSecs:  mpg.Duration().Seconds(),
		Width:         mpg.Width(),
		Height:        mpg.Height(),
		FrameRate:     mpg.Framerate(),
		FileSizeBytes: fileSize,
		CodecName:     "mpeg1video",
		Decoder:       config.DecoderNative,
	}
	if err := finalizeMetadata(&meta); err != nil {
		file.Close()
		return nil, err
	}

	logging.Debug("opened MPEG-1 stream",
		"path", path,
		"duration", meta.DurationSecs,
		"width", meta.Width,
		"height", meta.Height,
		"fps", meta.FrameRate,
	)

	return &nativeAccessor{file: file, mpg: mpg, meta: meta, maxWidth: opts.MaxDecodeWidth}, nil
}

func (a *nativeAccessor) Metadata() Metadata {
	return a.meta
}

func (a *nativeAccessor) SeekAndDecode(ctx context.Context, timestampSecs float64) (*SampledFrame, error) {
	if a.mpg == nil {
		return nil, coreerr.NewDecodeError(a.meta.Path, timestampSecs, "accessor is closed", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, coreerr.NewCancelledError(err)
	}
	if err := checkTimestamp(a.meta, timestampSecs); err != nil {
		return nil, err
	}

	pos := time.Duration(timestampSecs * float64(time.Second))
	frame := a.mpg.SeekFrame(pos, true)
	if frame == nil {
		return nil, coreerr.NewDecodeError(a.meta.Path, timestampSecs, "no frame at this position", nil)
	}

	// The decoder reuses its frame buffers, so copy before the next seek.
	rgba := ToRGBA(frame.YCbCr())
	if a.maxWidth > 0 && rgba.Bounds().Dx() > a.maxWidth {
		rgba = ToRGBA(resize.Resize(uint(a.maxWidth), 0, rgba, resize.Bilinear))
	}

	return &SampledFrame{TimestampSecs: timestampSecs, Image: rgba}, nil
}

func (a *nativeAccessor) Close() error {
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	a.mpg = nil
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", a.meta.Path, err)
	}
	return nil
}
