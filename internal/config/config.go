// Package config provides configuration types and defaults for thumbr.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Default constants
const (
	// DefaultGrid is the grid used when none is given.
	DefaultGrid = "3x3"

	// DefaultCanvasWidth is the output image width in pixels.
	DefaultCanvasWidth = 1920

	// DefaultPadding is the margin around the whole image.
	DefaultPadding = 30

	// DefaultSpacing is the gap between grid cells.
	DefaultSpacing = 20

	// DefaultJPEGQuality is the JPEG encoder quality (1-100).
	DefaultJPEGQuality = 95

	// DefaultWatermark is the footer text drawn when watermarking is enabled.
	DefaultWatermark = "Generated using thumbr - Video Thumbnail Generator"

	// DefaultWatermarkOpacity is the watermark alpha (0-1).
	DefaultWatermarkOpacity = 0.4

	// DefaultMaxDecodeWidth limits the width of decoded frames. 0 disables scaling at decode time.
	DefaultMaxDecodeWidth = 1920

	// MaxGridCells caps rows*columns.
	MaxGridCells = 400

	// MaxJPEGQuality is the maximum valid JPEG quality.
	MaxJPEGQuality = 100
)

// Decoder names the video accessor backend.
type Decoder string

const (
	// DecoderAuto prefers ffmpeg and falls back to the native decoder for MPEG-1 files.
	DecoderAuto Decoder = "auto"
	// DecoderFFmpeg uses the ffprobe/ffmpeg binaries.
	DecoderFFmpeg Decoder = "ffmpeg"
	// DecoderNative uses the pure-Go MPEG-1 decoder.
	DecoderNative Decoder = "native"
)

// ParseDecoder parses a decoder backend name.
func ParseDecoder(s string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DecoderAuto, nil
	case "ffmpeg":
		return DecoderFFmpeg, nil
	case "native", "mpeg":
		return DecoderNative, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: auto, ffmpeg, native", ErrInvalidDecoder, s)
	}
}

// GridSpec is the rows x columns arrangement of thumbnails.
type GridSpec struct {
	Rows    int
	Columns int
}

// Cells returns the number of frames the grid holds.
func (g GridSpec) Cells() int {
	return g.Rows * g.Columns
}

// String returns the grid as "RxC".
func (g GridSpec) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Columns)
}

// ParseGrid parses an "RxC" string such as "3x3" or "4X5".
func ParseGrid(s string) (GridSpec, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return GridSpec{}, fmt.Errorf("%w: '%s', expected ROWSxCOLUMNS such as 3x3", ErrInvalidGrid, s)
	}

	rows, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return GridSpec{}, fmt.Errorf("%w: rows in '%s' is not a number", ErrInvalidGrid, s)
	}
	cols, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return GridSpec{}, fmt.Errorf("%w: columns in '%s' is not a number", ErrInvalidGrid, s)
	}

	grid := GridSpec{Rows: rows, Columns: cols}
	if err := grid.Validate(); err != nil {
		return GridSpec{}, err
	}
	return grid, nil
}

// Validate checks that the grid has at least one row and column and at
// most MaxGridCells cells.
func (g GridSpec) Validate() error {
	if g.Rows < 1 || g.Columns < 1 {
		return fmt.Errorf("%w: rows and columns must be >= 1, got %s", ErrInvalidGrid, g)
	}
	if g.Cells() > MaxGridCells {
		return fmt.Errorf("%w: %s has %d cells, maximum is %d", ErrInvalidGrid, g, g.Cells(), MaxGridCells)
	}
	return nil
}

// Preset represents a named bundle of layout defaults.
type Preset string

const (
	PresetCompact  Preset = "compact"
	PresetStandard Preset = "standard"
	PresetDetailed Preset = "detailed"
)

// ParsePreset parses a string into a Preset.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(s) {
	case "compact":
		return PresetCompact, nil
	case "standard":
		return PresetStandard, nil
	case "detailed":
		return PresetDetailed, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: compact, standard, detailed", ErrInvalidPreset, s)
	}
}

// String returns the string representation of the preset.
func (p Preset) String() string {
	return string(p)
}

// PresetValues contains bundled parameter values for a preset.
type PresetValues struct {
	Grid        GridSpec
	Width       int
	Padding     int
	Spacing     int
	JPEGQuality int
}

// GetPresetValues returns the values for a given preset.
func GetPresetValues(p Preset) PresetValues {
	switch p {
	case PresetCompact:
		return PresetValues{
			Grid:        GridSpec{Rows: 4, Columns: 4},
			Width:       1280,
			Padding:     16,
			Spacing:     8,
			JPEGQuality: 85,
		}
	case PresetDetailed:
		return PresetValues{
			Grid:        GridSpec{Rows: 6, Columns: 5},
			Width:       3840,
			Padding:     40,
			Spacing:     24,
			JPEGQuality: DefaultJPEGQuality,
		}
	default:
		return PresetValues{
			Grid:        GridSpec{Rows: 3, Columns: 3},
			Width:       DefaultCanvasWidth,
			Padding:     DefaultPadding,
			Spacing:     DefaultSpacing,
			JPEGQuality: DefaultJPEGQuality,
		}
	}
}

// Config holds all configuration for thumbnail generation.
type Config struct {
	// Input/output paths
	InputPath  string
	OutputPath string // Optional; defaults to <input dir>/<stem>_thumbnail.jpg
	OutputDir  string // Batch mode output directory; defaults to each input's directory
	LogDir     string

	// Layout
	Grid        GridSpec
	Width       int // Canvas width
	Height      int // Canvas height; 0 derives it from the frame aspect ratio
	Padding     int
	Spacing     int
	JPEGQuality int

	// Annotation
	FontPath         string // Optional TrueType/OpenType font
	Watermark        string
	WatermarkImage   string
	WatermarkOpacity float64
	DisableWatermark bool

	// Decoding
	Decoder        Decoder
	MaxDecodeWidth int

	// Selected preset (optional)
	LayoutPreset *Preset
}

// NewConfig creates a new Config with default values.
func NewConfig(inputPath, outputPath, logDir string) *Config {
	return &Config{
		InputPath:        inputPath,
		OutputPath:       outputPath,
		LogDir:           logDir,
		Grid:             GridSpec{Rows: 3, Columns: 3},
		Width:            DefaultCanvasWidth,
		Padding:          DefaultPadding,
		Spacing:          DefaultSpacing,
		JPEGQuality:      DefaultJPEGQuality,
		Watermark:        DefaultWatermark,
		WatermarkOpacity: DefaultWatermarkOpacity,
		Decoder:          DecoderAuto,
		MaxDecodeWidth:   DefaultMaxDecodeWidth,
	}
}

// ApplyPreset applies the given preset to the config.
func (c *Config) ApplyPreset(p Preset) {
	values := GetPresetValues(p)
	c.LayoutPreset = &p
	c.Grid = values.Grid
	c.Width = values.Width
	c.Padding = values.Padding
	c.Spacing = values.Spacing
	c.JPEGQuality = values.JPEGQuality
}

// WatermarkEnabled reports whether a watermark text or image will be drawn.
func (c *Config) WatermarkEnabled() bool {
	if c.DisableWatermark {
		return false
	}
	return c.Watermark != "" || c.WatermarkImage != ""
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}

	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidDimensions, c.Width)
	}

	if c.Height < 0 {
		return fmt.Errorf("%w: height must not be negative, got %d", ErrInvalidDimensions, c.Height)
	}

	if c.Padding < 0 || c.Spacing < 0 {
		return fmt.Errorf("%w: padding and spacing must not be negative, got %d and %d",
			ErrInvalidDimensions, c.Padding, c.Spacing)
	}

	if c.JPEGQuality < 1 || c.JPEGQuality > MaxJPEGQuality {
		return fmt.Errorf("%w: must be 1-%d, got %d", ErrInvalidQuality, MaxJPEGQuality, c.JPEGQuality)
	}

	if c.WatermarkOpacity < 0 || c.WatermarkOpacity > 1 {
		return fmt.Errorf("%w: must be 0-1, got %g", ErrInvalidOpacity, c.WatermarkOpacity)
	}

	if _, err := ParseDecoder(string(c.Decoder)); err != nil {
		return err
	}

	if c.MaxDecodeWidth < 0 {
		return fmt.Errorf("%w: max decode width must not be negative, got %d", ErrInvalidDimensions, c.MaxDecodeWidth)
	}

	return nil
}
