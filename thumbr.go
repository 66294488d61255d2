// Package thumbr provides a Go library for generating video contact sheets.
//
// A contact sheet is a single image holding a grid of frames sampled evenly
// across a video, a metadata header and an optional watermark.
//
// Basic usage:
//
//	gen, err := thumbr.New(
//	    thumbr.WithPreset(thumbr.PresetDetailed),
//	    thumbr.WithGrid(4, 4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := gen.Generate(ctx, "movie.mkv", "", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Wrote %s (%dx%d)\n", result.OutputFile, result.Width, result.Height)
package thumbr

import (
	"context"
	"fmt"

	"github.com/five82/thumbr/internal/config"
	"github.com/five82/thumbr/internal/discovery"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/processing"
	"github.com/five82/thumbr/internal/reporter"
	"github.com/five82/thumbr/internal/util"
)

// Re-export preset types
type Preset = config.Preset

const (
	PresetCompact  = config.PresetCompact
	PresetStandard = config.PresetStandard
	PresetDetailed = config.PresetDetailed
)

// Grid is a rows x columns arrangement of frames.
type Grid = config.GridSpec

// Decoder selects the video backend.
type Decoder = config.Decoder

const (
	DecoderAuto   = config.DecoderAuto
	DecoderFFmpeg = config.DecoderFFmpeg
	DecoderNative = config.DecoderNative
)

// Style is a parsed YAML style file.
type Style = config.Style

// Reporter receives every pipeline event. See GenerateWithReporter.
type Reporter = reporter.Reporter

// ErrorKind classifies failures. Use IsKind to test an error.
type ErrorKind = coreerr.ErrorKind

const (
	KindOpen              = coreerr.KindOpen
	KindDecode            = coreerr.KindDecode
	KindSample            = coreerr.KindSample
	KindLayout            = coreerr.KindLayout
	KindWrite             = coreerr.KindWrite
	KindUnsupportedFormat = coreerr.KindUnsupportedFormat
	KindConfig            = coreerr.KindConfig
	KindCancelled         = coreerr.KindCancelled
)

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return coreerr.IsKind(err, kind)
}

// ParsePreset converts a preset string to a Preset value.
// Valid values are "compact", "standard", and "detailed" (case-insensitive).
func ParsePreset(s string) (Preset, error) {
	return config.ParsePreset(s)
}

// ParseGrid parses "RxC", e.g. "3x4" for three rows of four frames.
func ParseGrid(s string) (Grid, error) {
	return config.ParseGrid(s)
}

// LoadStyle reads a YAML style file for use with WithStyle.
func LoadStyle(path string) (*Style, error) {
	return config.LoadStyle(path)
}

// Generator is the main entry point for contact sheet generation.
type Generator struct {
	config *config.Config
}

// Result contains the result of a single contact sheet.
type Result struct {
	InputFile        string
	OutputFile       string
	Width            int
	Height           int
	Frames           int
	OutputSize       uint64
	ValidationPassed bool
	Warnings         []string
}

// BatchResult contains the result of a batch run.
type BatchResult struct {
	Results         []Result
	SuccessfulCount int
	TotalFiles      int
	TotalOutputSize uint64
}

// Option configures the generator.
type Option func(*config.Config) error

// New creates a new Generator with the given options.
func New(opts ...Option) (*Generator, error) {
	cfg := config.NewConfig("", "", "")

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, coreerr.NewConfigError("invalid option", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, coreerr.NewConfigError("invalid configuration", err)
	}

	return &Generator{config: cfg}, nil
}

// WithPreset applies a layout preset.
func WithPreset(p Preset) Option {
	return func(c *config.Config) error {
		c.ApplyPreset(p)
		return nil
	}
}

// WithStyle overlays a style file. Later options override it.
func WithStyle(s *Style) Option {
	return func(c *config.Config) error {
		return c.ApplyStyle(s)
	}
}

// WithGrid sets the number of rows and columns.
func WithGrid(rows, columns int) Option {
	return func(c *config.Config) error {
		c.Grid = config.GridSpec{Rows: rows, Columns: columns}
		return nil
	}
}

// WithWidth sets the canvas width in pixels.
func WithWidth(width int) Option {
	return func(c *config.Config) error {
		c.Width = width
		return nil
	}
}

// WithHeight fixes the canvas height. Cells shrink to fit and frames are
// letterboxed.
func WithHeight(height int) Option {
	return func(c *config.Config) error {
		c.Height = height
		return nil
	}
}

// WithSpacing sets the outer padding and the gap between cells.
func WithSpacing(padding, spacing int) Option {
	return func(c *config.Config) error {
		c.Padding = padding
		c.Spacing = spacing
		return nil
	}
}

// WithJPEGQuality sets the JPEG encoder quality (1-100).
func WithJPEGQuality(quality int) Option {
	return func(c *config.Config) error {
		c.JPEGQuality = quality
		return nil
	}
}

// WithFont uses a TrueType/OpenType font file for all text.
func WithFont(path string) Option {
	return func(c *config.Config) error {
		c.FontPath = path
		return nil
	}
}

// WithWatermark sets the footer watermark text and opacity (0-1).
func WithWatermark(text string, opacity float64) Option {
	return func(c *config.Config) error {
		c.Watermark = text
		c.WatermarkOpacity = opacity
		c.DisableWatermark = false
		return nil
	}
}

// WithWatermarkImage draws a PNG or JPEG logo in the footer.
func WithWatermarkImage(path string) Option {
	return func(c *config.Config) error {
		c.WatermarkImage = path
		c.DisableWatermark = false
		return nil
	}
}

// WithoutWatermark disables the watermark and its footer band.
func WithoutWatermark() Option {
	return func(c *config.Config) error {
		c.DisableWatermark = true
		return nil
	}
}

// WithDecoder selects the decoding backend.
func WithDecoder(d Decoder) Option {
	return func(c *config.Config) error {
		c.Decoder = d
		return nil
	}
}

// Generate writes a contact sheet for input. An empty output selects
// <input dir>/<stem>_thumbnail.jpg.
func (g *Generator) Generate(ctx context.Context, input, output string, handler EventHandler) (*Result, error) {
	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}
	return g.GenerateWithReporter(ctx, input, output, rep)
}

// GenerateWithReporter is Generate with direct access to every pipeline
// event.
func (g *Generator) GenerateWithReporter(ctx context.Context, input, output string, rep Reporter) (*Result, error) {
	cfg := *g.config
	cfg.InputPath = input
	cfg.OutputPath = output

	results, err := processing.ProcessVideos(ctx, &cfg, []string{input}, rep)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no contact sheet was written")
	}

	r := toResult(results[0])
	return &r, nil
}

// GenerateBatch writes one contact sheet per input into outputDir (or next
// to each input when outputDir is empty). It stops at the first failure and
// returns the sheets written so far along with the error.
func (g *Generator) GenerateBatch(ctx context.Context, inputs []string, outputDir string, handler EventHandler) (*BatchResult, error) {
	cfg := *g.config
	cfg.OutputDir = outputDir

	if outputDir != "" {
		if err := util.EnsureDirectory(outputDir); err != nil {
			return nil, coreerr.NewWriteError(outputDir, "failed to create output directory", err)
		}
	}

	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}

	results, err := processing.ProcessVideos(ctx, &cfg, inputs, rep)

	batch := &BatchResult{TotalFiles: len(inputs)}
	for _, r := range results {
		batch.Results = append(batch.Results, toResult(r))
		batch.SuccessfulCount++
		batch.TotalOutputSize += r.OutputSize
	}
	return batch, err
}

// FindVideos finds video files in a directory.
func FindVideos(dir string) ([]string, error) {
	result, err := discovery.FindVideoFiles(dir)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

func toResult(r *processing.Result) Result {
	return Result{
		InputFile:        r.InputPath,
		OutputFile:       r.OutputPath,
		Width:            r.Layout.CanvasWidth,
		Height:           r.Layout.CanvasHeight,
		Frames:           r.Frames,
		OutputSize:       r.OutputSize,
		ValidationPassed: r.Validation != nil && r.Validation.IsValid(),
		Warnings:         r.Warnings,
	}
}
