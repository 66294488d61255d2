// Package processing runs the thumbnail pipeline for one or more videos.
package processing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/five82/thumbr/internal/annotate"
	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/layout"
	"github.com/five82/thumbr/internal/logging"
	"github.com/five82/thumbr/internal/reporter"
	"github.com/five82/thumbr/internal/sampler"
	"github.com/five82/thumbr/internal/util"
	"github.com/five82/thumbr/internal/validation"
	"github.com/five82/thumbr/internal/video"
	"github.com/five82/thumbr/internal/writer"
)

// State is a pipeline stage.
type State int

const (
	StateIdle State = iota
	StateOpened
	StateSampling
	StateComposing
	StateAnnotating
	StateWriting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpened:
		return "opened"
	case StateSampling:
		return "sampling"
	case StateComposing:
		return "composing"
	case StateAnnotating:
		return "annotating"
	case StateWriting:
		return "writing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition can happen.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// OpenFunc opens a video for decoding. video.Open is the default.
type OpenFunc func(ctx context.Context, path string, opts video.Options) (video.Accessor, error)

// Result describes one successfully written contact sheet.
type Result struct {
	InputPath  string
	OutputPath string
	Metadata   video.Metadata
	Layout     layout.Layout
	Frames     int
	OutputSize uint64
	Duration   time.Duration
	Validation *validation.Result
	Warnings   []string
}

// Pipeline turns a single video into a contact sheet. A Pipeline runs once;
// create a new one per input.
type Pipeline struct {
	cfg         *config.Config
	rep         reporter.Reporter
	open        OpenFunc
	state       State
	failureKind coreerr.ErrorKind
	history     []State
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOpener replaces the video backend, mainly for tests.
func WithOpener(open OpenFunc) Option {
	return func(p *Pipeline) {
		p.open = open
	}
}

// NewPipeline creates a pipeline in the Idle state.
func NewPipeline(cfg *config.Config, rep reporter.Reporter, opts ...Option) *Pipeline {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	p := &Pipeline{
		cfg:     cfg,
		rep:     rep,
		open:    video.Open,
		state:   StateIdle,
		history: []State{StateIdle},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state.
func (p *Pipeline) State() State {
	return p.state
}

// FailureKind returns the error kind that moved the pipeline to Failed.
func (p *Pipeline) FailureKind() (coreerr.ErrorKind, bool) {
	return p.failureKind, p.state == StateFailed
}

// History returns every state the pipeline has been in, in order.
func (p *Pipeline) History() []State {
	return append([]State(nil), p.history...)
}

func (p *Pipeline) transition(to State, message string) {
	logging.Debug("pipeline transition", "from", p.state.String(), "to", to.String())
	p.state = to
	p.history = append(p.history, to)
	if message != "" {
		p.rep.StageProgress(reporter.StageProgress{Stage: to.String(), Message: message})
	}
}

func (p *Pipeline) fail(err error) error {
	kind, ok := coreerr.KindOf(err)
	if !ok {
		kind = coreerr.KindDecode
		err = coreerr.NewDecodeError(p.cfg.InputPath, 0, "unexpected failure", err)
	}
	p.failureKind = kind
	logging.Error("pipeline failed", "state", p.state.String(), "kind", kind.String(), "error", err)
	p.state = StateFailed
	p.history = append(p.history, StateFailed)
	return err
}

// Run executes every stage for inputPath and writes the sheet to outputPath.
// On failure no output file is left behind.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	if p.state != StateIdle {
		return nil, fmt.Errorf("pipeline already ran (state %s)", p.state)
	}
	start := time.Now()

	// Reject unsupported extensions before decoding anything.
	format, err := writer.FormatForPath(outputPath)
	if err != nil {
		return nil, p.fail(err)
	}

	acc, err := p.open(ctx, inputPath, video.Options{
		Decoder:        p.cfg.Decoder,
		MaxDecodeWidth: p.cfg.MaxDecodeWidth,
	})
	if err != nil {
		return nil, p.fail(err)
	}
	defer acc.Close()

	meta := acc.Metadata()
	p.rep.Initialization(reporter.InitializationSummary{
		InputFile:  meta.Filename,
		OutputFile: util.GetFilename(outputPath),
		Duration:   util.FormatDuration(meta.DurationSecs),
		Resolution: util.FormatResolution(meta.Width, meta.Height),
		FrameRate:  util.FormatFrameRate(meta.FrameRate),
		FileSize:   util.FormatFileSize(meta.FileSizeBytes),
		Codec:      meta.CodecName,
		Decoder:    string(meta.Decoder),
	})
	p.transition(StateOpened, "")

	geometry, err := layout.Compute(layout.Spec{
		Grid:        p.cfg.Grid,
		MaxWidth:    p.cfg.Width,
		Height:      p.cfg.Height,
		Padding:     p.cfg.Padding,
		Spacing:     p.cfg.Spacing,
		FrameAspect: meta.AspectRatio(),
		Footer:      p.cfg.WatermarkEnabled(),
	})
	if err != nil {
		return nil, p.fail(err)
	}
	p.rep.LayoutConfig(p.layoutSummary(geometry, format))

	n := p.cfg.Grid.Cells()
	p.transition(StateSampling, fmt.Sprintf("Sampling %d frames across %s", n, util.FormatDuration(meta.DurationSecs)))
	p.rep.SamplingStarted(n)
	frames, err := sampler.Sample(ctx, acc, n, func(pr sampler.Progress) {
		p.rep.SamplingProgress(reporter.SamplingSnapshot{
			Current:   pr.Current,
			Total:     pr.Total,
			Timestamp: util.FormatTimestamp(pr.TimestampSecs, meta.DurationSecs),
			Percent:   float32(pr.Current) / float32(pr.Total) * 100,
		})
	})
	if err != nil {
		return nil, p.fail(err)
	}

	p.transition(StateComposing, fmt.Sprintf("Composing %dx%d canvas", geometry.CanvasWidth, geometry.CanvasHeight))
	sheet, err := layout.Compose(geometry, frames, layout.DefaultStyle())
	if err != nil {
		return nil, p.fail(err)
	}

	p.transition(StateAnnotating, "Drawing header, labels and watermark")
	ann := annotate.New(p.annotateOptions())
	ann.Annotate(sheet, meta, frames)
	warnings := ann.Warnings()
	for _, w := range warnings {
		p.rep.Warning(w)
	}

	p.transition(StateWriting, fmt.Sprintf("Writing %s", outputPath))
	if err := writer.Write(sheet.Image, outputPath, writer.Options{JPEGQuality: p.cfg.JPEGQuality}); err != nil {
		return nil, p.fail(err)
	}

	check := validation.ValidateOutputImage(outputPath, validation.Options{
		ExpectedFormat:     string(format),
		ExpectedDimensions: &[2]int{geometry.CanvasWidth, geometry.CanvasHeight},
	})
	p.rep.ValidationComplete(validationSummary(check))
	if !check.IsValid() {
		if rmErr := os.Remove(outputPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("failed to remove invalid output", "path", outputPath, "error", rmErr)
		}
		return nil, p.fail(coreerr.NewWriteError(outputPath,
			"output validation failed: "+strings.Join(check.GetFailures(), "; "), nil))
	}

	size, _ := util.GetFileSize(outputPath)
	result := &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Metadata:   meta,
		Layout:     geometry,
		Frames:     len(frames),
		OutputSize: uint64(size),
		Duration:   time.Since(start),
		Validation: check,
		Warnings:   warnings,
	}
	p.transition(StateDone, "")

	logging.Info("thumbnail written",
		"input", inputPath,
		"output", outputPath,
		"width", geometry.CanvasWidth,
		"height", geometry.CanvasHeight,
		"frames", result.Frames,
		"bytes", result.OutputSize,
		"elapsed", result.Duration,
	)

	p.rep.ThumbnailComplete(reporter.ThumbnailOutcome{
		InputFile:  meta.Filename,
		OutputFile: util.GetFilename(outputPath),
		OutputPath: outputPath,
		OutputSize: result.OutputSize,
		Width:      geometry.CanvasWidth,
		Height:     geometry.CanvasHeight,
		Frames:     result.Frames,
		TotalTime:  result.Duration,
	})
	return result, nil
}

func (p *Pipeline) annotateOptions() annotate.Options {
	opts := annotate.Options{
		FontPath:         p.cfg.FontPath,
		WatermarkOpacity: p.cfg.WatermarkOpacity,
	}
	if p.cfg.WatermarkEnabled() {
		opts.Watermark = p.cfg.Watermark
		opts.WatermarkImage = p.cfg.WatermarkImage
	}
	return opts
}

func (p *Pipeline) layoutSummary(l layout.Layout, format writer.Format) reporter.LayoutSummary {
	summary := reporter.LayoutSummary{
		Grid:    l.Grid.String(),
		Frames:  l.Grid.Cells(),
		Canvas:  util.FormatResolution(l.CanvasWidth, l.CanvasHeight),
		Cell:    util.FormatResolution(l.CellWidth, l.CellHeight),
		Format:  string(format),
		Quality: p.cfg.JPEGQuality,
	}
	if p.cfg.LayoutPreset != nil {
		summary.Preset = p.cfg.LayoutPreset.String()
	}
	if p.cfg.WatermarkEnabled() {
		parts := []string{}
		if p.cfg.Watermark != "" {
			parts = append(parts, fmt.Sprintf("%q", p.cfg.Watermark))
		}
		if p.cfg.WatermarkImage != "" {
			parts = append(parts, util.GetFilename(p.cfg.WatermarkImage))
		}
		summary.Watermark = fmt.Sprintf("%s at %.0f%%", strings.Join(parts, " + "), p.cfg.WatermarkOpacity*100)
	}
	return summary
}

func validationSummary(r *validation.Result) reporter.ValidationSummary {
	summary := reporter.ValidationSummary{Passed: r.IsValid()}
	for _, step := range r.GetValidationSteps() {
		summary.Steps = append(summary.Steps, reporter.ValidationStep{
			Name:    step.Name,
			Passed:  step.Passed,
			Details: step.Details,
		})
	}
	return summary
}
