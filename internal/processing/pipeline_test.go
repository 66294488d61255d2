package processing

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/reporter"
	"github.com/five82/thumbr/internal/validation"
	"github.com/five82/thumbr/internal/video"
)

// fakeAccessor serves solid frames without ffmpeg.
type fakeAccessor struct {
	meta      video.Metadata
	failAt    int // 1-based decode call that fails; 0 never fails
	requested []float64
	closed    bool
}

func newFakeAccessor(path string) *fakeAccessor {
	return &fakeAccessor{meta: video.Metadata{
		Path:          path,
		Filename:      filepath.Base(path),
		DurationSecs:  600,
		Width:         320,
		Height:        180,
		FrameRate:     24,
		FrameCount:    14400,
		FileSizeBytes: 12897484,
		CodecName:     "h264",
		Decoder:       config.DecoderFFmpeg,
	}}
}

func (f *fakeAccessor) Metadata() video.Metadata { return f.meta }

func (f *fakeAccessor) SeekAndDecode(_ context.Context, ts float64) (*video.SampledFrame, error) {
	f.requested = append(f.requested, ts)
	if f.failAt > 0 && len(f.requested) == f.failAt {
		return nil, coreerr.NewDecodeError(f.meta.Path, ts, "corrupt packet", nil)
	}
	img := image.NewRGBA(image.Rect(0, 0, f.meta.Width, f.meta.Height))
	shade := uint8(20 * len(f.requested))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: shade, G: 100, B: 200, A: 255}}, image.Point{}, draw.Src)
	return &video.SampledFrame{Image: img}, nil
}

func (f *fakeAccessor) Close() error {
	f.closed = true
	return nil
}

func openerFor(acc *fakeAccessor) OpenFunc {
	return func(context.Context, string, video.Options) (video.Accessor, error) {
		return acc, nil
	}
}

func testConfig(input, output string) *config.Config {
	cfg := config.NewConfig(input, output, "")
	cfg.Width = 640
	cfg.Padding = 10
	cfg.Spacing = 5
	return cfg
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	output := filepath.Join(dir, "out", "movie_thumbnail.jpg")
	acc := newFakeAccessor(input)

	p := NewPipeline(testConfig(input, output), nil, WithOpener(openerFor(acc)))
	result, err := p.Run(context.Background(), input, output)
	require.NoError(t, err)

	assert.Equal(t, StateDone, p.State())
	assert.Equal(t, []State{
		StateIdle, StateOpened, StateSampling, StateComposing, StateAnnotating, StateWriting, StateDone,
	}, p.History())
	assert.True(t, acc.closed, "accessor should be closed")

	want := []float64{33.3, 100, 166.7, 233.3, 300, 366.7, 433.3, 500, 566.7}
	require.Len(t, acc.requested, len(want))
	for i, ts := range want {
		assert.InDelta(t, ts, acc.requested[i], 0.1, "timestamp %d", i)
	}

	assert.Equal(t, 9, result.Frames)
	assert.True(t, result.Validation.IsValid())
	assert.Positive(t, result.OutputSize)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, result.Layout.CanvasWidth, cfg.Width)
	assert.Equal(t, result.Layout.CanvasHeight, cfg.Height)
}

func TestPipeline_Run_PNG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mpg")
	output := filepath.Join(dir, "clip.png")
	acc := newFakeAccessor(input)

	cfg := testConfig(input, output)
	cfg.Grid = config.GridSpec{Rows: 1, Columns: 1}
	cfg.DisableWatermark = true

	result, err := NewPipeline(cfg, nil, WithOpener(openerFor(acc))).Run(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, "png", result.Validation.Format)
	assert.Zero(t, result.Layout.FooterHeight)
	require.Len(t, acc.requested, 1)
	assert.InDelta(t, 300, acc.requested[0], 1e-9)
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	output := filepath.Join(dir, "movie_thumbnail.png")

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		acc := newFakeAccessor(input)
		_, err := NewPipeline(testConfig(input, output), nil, WithOpener(openerFor(acc))).Run(context.Background(), input, output)
		require.NoError(t, err)
		data, err := os.ReadFile(output)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestPipeline_Run_Failures(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		setup      func(cfg *config.Config, acc *fakeAccessor)
		opener     func(acc *fakeAccessor) OpenFunc
		ctx        func() context.Context
		wantKind   coreerr.ErrorKind
		wantOpened bool
	}{
		{
			name:     "unsupported output format",
			output:   "movie_thumbnail.bmp",
			wantKind: coreerr.KindUnsupportedFormat,
		},
		{
			name:   "unreadable input",
			output: "movie_thumbnail.jpg",
			opener: func(*fakeAccessor) OpenFunc {
				return func(_ context.Context, path string, _ video.Options) (video.Accessor, error) {
					return nil, coreerr.NewOpenError(path, "not a video", nil)
				}
			},
			wantKind: coreerr.KindOpen,
		},
		{
			name:   "grid larger than frame count",
			output: "movie_thumbnail.jpg",
			setup: func(_ *config.Config, acc *fakeAccessor) {
				acc.meta.FrameCount = 4
			},
			wantKind:   coreerr.KindSample,
			wantOpened: true,
		},
		{
			name:   "decode failure",
			output: "movie_thumbnail.jpg",
			setup: func(_ *config.Config, acc *fakeAccessor) {
				acc.failAt = 5
			},
			wantKind:   coreerr.KindSample,
			wantOpened: true,
		},
		{
			name:   "canvas too small",
			output: "movie_thumbnail.jpg",
			setup: func(cfg *config.Config, _ *fakeAccessor) {
				cfg.Width = 30
			},
			wantKind:   coreerr.KindLayout,
			wantOpened: true,
		},
		{
			name:   "cancelled",
			output: "movie_thumbnail.jpg",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantKind:   coreerr.KindCancelled,
			wantOpened: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "movie.mp4")
			output := filepath.Join(dir, tt.output)
			acc := newFakeAccessor(input)
			cfg := testConfig(input, output)
			if tt.setup != nil {
				tt.setup(cfg, acc)
			}
			opener := openerFor(acc)
			if tt.opener != nil {
				opener = tt.opener(acc)
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			p := NewPipeline(cfg, nil, WithOpener(opener))
			result, err := p.Run(ctx, input, output)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, coreerr.IsKind(err, tt.wantKind), "error %v, want kind %v", err, tt.wantKind)

			kind, failed := p.FailureKind()
			assert.True(t, failed)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, StateFailed, p.State())
			assert.Equal(t, tt.wantOpened, contains(p.History(), StateOpened))

			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr), "no output file expected")
		})
	}
}

func contains(states []State, s State) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

func TestPipeline_RunTwice(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	output := filepath.Join(dir, "movie.jpg")

	p := NewPipeline(testConfig(input, output), nil, WithOpener(openerFor(newFakeAccessor(input))))
	_, err := p.Run(context.Background(), input, output)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), input, output)
	assert.Error(t, err)
	assert.Equal(t, StateDone, p.State())
}

// recordingReporter keeps the events the pipeline emits.
type recordingReporter struct {
	reporter.NullReporter
	stages     []string
	sampled    []reporter.SamplingSnapshot
	validation *reporter.ValidationSummary
	errs       []reporter.ReporterError
	batch      *reporter.BatchSummary
	files      []int
}

func (r *recordingReporter) StageProgress(u reporter.StageProgress) { r.stages = append(r.stages, u.Stage) }
func (r *recordingReporter) SamplingProgress(s reporter.SamplingSnapshot) {
	r.sampled = append(r.sampled, s)
}
func (r *recordingReporter) ValidationComplete(s reporter.ValidationSummary) { r.validation = &s }
func (r *recordingReporter) Error(e reporter.ReporterError)                  { r.errs = append(r.errs, e) }
func (r *recordingReporter) BatchComplete(s reporter.BatchSummary)           { r.batch = &s }
func (r *recordingReporter) FileProgress(c reporter.FileProgressContext) {
	r.files = append(r.files, c.CurrentFile)
}

func TestPipeline_ReportsProgress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	output := filepath.Join(dir, "movie.jpg")
	rep := &recordingReporter{}

	_, err := NewPipeline(testConfig(input, output), rep, WithOpener(openerFor(newFakeAccessor(input)))).
		Run(context.Background(), input, output)
	require.NoError(t, err)

	assert.Equal(t, []string{"sampling", "composing", "annotating", "writing"}, rep.stages)
	require.Len(t, rep.sampled, 9)
	assert.Equal(t, "00:33", rep.sampled[0].Timestamp)
	assert.Equal(t, "09:26", rep.sampled[8].Timestamp)
	assert.InDelta(t, 100, rep.sampled[8].Percent, 1e-3)
	require.NotNil(t, rep.validation)
	assert.True(t, rep.validation.Passed)
}

func TestProcessVideos_Batch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "sheets")
	inputs := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b clip.mkv")}

	cfg := testConfig("", "")
	cfg.OutputDir = outDir
	rep := &recordingReporter{}

	opener := func(_ context.Context, path string, _ video.Options) (video.Accessor, error) {
		return newFakeAccessor(path), nil
	}
	results, err := ProcessVideos(context.Background(), cfg, inputs, rep, WithOpener(opener))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(outDir, "a_thumbnail.jpg"), results[0].OutputPath)
	assert.Equal(t, filepath.Join(outDir, "b_clip_thumbnail.jpg"), results[1].OutputPath)
	assert.FileExists(t, results[1].OutputPath)
	assert.Equal(t, []int{1, 2}, rep.files)
	require.NotNil(t, rep.batch)
	assert.Equal(t, 2, rep.batch.SuccessfulCount)
	assert.Equal(t, results[0].OutputSize+results[1].OutputSize, rep.batch.TotalOutputSize)
}

func TestProcessVideos_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "broken.mp4"),
		filepath.Join(dir, "c.mp4"),
	}
	cfg := testConfig("", "")
	rep := &recordingReporter{}

	var opened []string
	opener := func(_ context.Context, path string, _ video.Options) (video.Accessor, error) {
		opened = append(opened, filepath.Base(path))
		if filepath.Base(path) == "broken.mp4" {
			return nil, coreerr.NewOpenError(path, "moov atom not found", nil)
		}
		return newFakeAccessor(path), nil
	}

	results, err := ProcessVideos(context.Background(), cfg, inputs, rep, WithOpener(opener))
	require.Error(t, err)
	assert.True(t, coreerr.IsKind(err, coreerr.KindOpen))
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"a.mp4", "broken.mp4"}, opened)
	assert.NoFileExists(t, filepath.Join(dir, "c_thumbnail.jpg"))
	require.Len(t, rep.errs, 1)
	assert.Equal(t, coreerr.KindOpen.String(), rep.errs[0].Title)
	assert.Nil(t, rep.batch)
}

func TestOutputPathFor(t *testing.T) {
	cfg := config.NewConfig("/videos/My Movie.mkv", "/tmp/custom.png", "")
	assert.Equal(t, "/tmp/custom.png", OutputPathFor(cfg, "/videos/My Movie.mkv", true))
	assert.Equal(t, filepath.Join("/videos", "My_Movie_thumbnail.jpg"), OutputPathFor(cfg, "/videos/My Movie.mkv", false))

	cfg.OutputDir = "/sheets"
	assert.Equal(t, filepath.Join("/sheets", "x_thumbnail.jpg"), OutputPathFor(cfg, "/videos/x.mp4", false))
}

func TestErrorReport(t *testing.T) {
	report := ErrorReport("/v/a.mp4", coreerr.NewUnsupportedFormatError("/v/a.bmp", ".bmp"))
	assert.Equal(t, coreerr.KindUnsupportedFormat.String(), report.Title)
	assert.Contains(t, report.Suggestion, ".png")
	assert.Equal(t, "File: /v/a.mp4", report.Context)
}

func TestValidationSummary(t *testing.T) {
	r := &validation.Result{IsReadable: true, IsFormatCorrect: true, IsDimensionsCorrect: false, Format: "jpeg"}
	summary := validationSummary(r)
	assert.False(t, summary.Passed)
	assert.NotEmpty(t, summary.Steps)
}
