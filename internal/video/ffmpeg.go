package video

import (
	"context"
	"errors"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/ffmpeg"
	"github.com/five82/thumbr/internal/ffprobe"
	"github.com/five82/thumbr/internal/logging"
)

// ffmpegAccessor probes once with ffprobe and runs one ffmpeg process per
// requested frame.
type ffmpegAccessor struct {
	meta     Metadata
	maxWidth int
	closed   bool
}

func openFFmpeg(ctx context.Context, path string, fileSize int64, opts Options) (Accessor, error) {
	info, err := ffprobe.GetVideoInfo(ctx, path)
	if err != nil {
		if coreerr.IsCancelled(err) {
			return nil, err
		}
		return nil, coreerr.NewOpenError(path, "cannot read video stream", err)
	}

	meta := Metadata{
		Path:          path,
		DurationSecs:  info.DurationSecs,
		Width:         info.Width,
		Height:        info.Height,
		FrameRate:     info.FrameRate,
		FrameCount:    info.FrameCount,
		FileSizeBytes: info.SizeBytes,
		CodecName:     info.CodecName,
		Decoder:       config.DecoderFFmpeg,
	}
	if meta.FileSizeBytes <= 0 {
		meta.FileSizeBytes = fileSize
	}
	if err := finalizeMetadata(&meta); err != nil {
		return nil, err
	}

	logging.Debug("probed video",
		"path", path,
		"duration", meta.DurationSecs,
		"width", meta.Width,
		"height", meta.Height,
		"fps", meta.FrameRate,
		"frames", meta.FrameCount,
		"codec", meta.CodecName,
	)

	return &ffmpegAccessor{meta: meta, maxWidth: opts.MaxDecodeWidth}, nil
}

func (a *ffmpegAccessor) Metadata() Metadata {
	return a.meta
}

func (a *ffmpegAccessor) SeekAndDecode(ctx context.Context, timestampSecs float64) (*SampledFrame, error) {
	if a.closed {
		return nil, coreerr.NewDecodeError(a.meta.Path, timestampSecs, "accessor is closed", nil)
	}
	if err := checkTimestamp(a.meta, timestampSecs); err != nil {
		return nil, err
	}

	img, err := ffmpeg.GrabFrame(ctx, ffmpeg.FrameGrab{
		InputPath:     a.meta.Path,
		TimestampSecs: timestampSecs,
		MaxWidth:      a.maxWidth,
	})
	if err != nil {
		if coreerr.IsCancelled(err) {
			return nil, err
		}
		msg := "ffmpeg could not decode a frame"
		if errors.Is(err, ffmpeg.ErrNoFrame) {
			msg = "no frame at this position"
		}
		return nil, coreerr.NewDecodeError(a.meta.Path, timestampSecs, msg, err)
	}

	return &SampledFrame{TimestampSecs: timestampSecs, Image: ToRGBA(img)}, nil
}

func (a *ffmpegAccessor) Close() error {
	a.closed = true
	return nil
}
