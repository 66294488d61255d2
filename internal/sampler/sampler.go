// Package sampler picks evenly spaced timestamps and decodes one frame at
// each of them.
package sampler

import (
	"context"
	"fmt"

	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/logging"
	"github.com/five82/thumbr/internal/video"
)

// Progress is reported after each decoded frame.
type Progress struct {
	Current       int // Frames decoded so far
	Total         int
	TimestampSecs float64
}

// ProgressCallback receives sampling progress.
type ProgressCallback func(Progress)

// Timestamps returns n timestamps centred in n equal slices of duration:
// t_i = duration * (i + 0.5) / n. The result is strictly increasing and
// lies inside (0, duration).
func Timestamps(duration float64, n int) []float64 {
	if n <= 0 || duration <= 0 {
		return nil
	}
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = duration * (float64(i) + 0.5) / float64(n)
	}
	return ts
}

// Sample decodes n frames from acc in increasing timestamp order. Any decode
// failure aborts the whole run; no placeholder frames are substituted.
func Sample(ctx context.Context, acc video.Accessor, n int, progress ProgressCallback) ([]*video.SampledFrame, error) {
	meta := acc.Metadata()

	if n < 1 {
		return nil, coreerr.NewSampleError(fmt.Sprintf("frame count must be at least 1, got %d", n), nil)
	}
	if meta.DurationSecs <= 0 {
		return nil, coreerr.NewSampleError(fmt.Sprintf("%s has no usable duration (%.3fs)", meta.Path, meta.DurationSecs), nil)
	}
	if meta.FrameCount > 0 && int64(n) > meta.FrameCount {
		return nil, coreerr.NewSampleError(
			fmt.Sprintf("%d frames requested but %s only has %d", n, meta.Path, meta.FrameCount), nil)
	}

	timestamps := Timestamps(meta.DurationSecs, n)
	frames := make([]*video.SampledFrame, 0, n)

	for i, ts := range timestamps {
		if err := ctx.Err(); err != nil {
			return nil, coreerr.NewCancelledError(err)
		}

		frame, err := acc.SeekAndDecode(ctx, ts)
		if err != nil {
			if coreerr.IsCancelled(err) {
				return nil, err
			}
			return nil, coreerr.NewSampleError(fmt.Sprintf("frame %d of %d", i+1, n), err)
		}
		frame.Index = i
		frame.TimestampSecs = ts
		frames = append(frames, frame)

		logging.Debug("sampled frame", "index", i, "timestamp", ts)

		if progress != nil {
			progress(Progress{Current: i + 1, Total: n, TimestampSecs: ts})
		}
	}

	return frames, nil
}
