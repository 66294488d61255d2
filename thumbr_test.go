package thumbr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/thumbr/internal/config"
	"github.com/five82/thumbr/internal/reporter"
)

func TestNew_Defaults(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if gen.config.Grid != (Grid{Rows: 3, Columns: 3}) {
		t.Errorf("Grid = %v, want 3x3", gen.config.Grid)
	}
	if gen.config.Width != config.DefaultCanvasWidth {
		t.Errorf("Width = %d, want %d", gen.config.Width, config.DefaultCanvasWidth)
	}
}

func TestNew_Options(t *testing.T) {
	gen, err := New(
		WithPreset(PresetCompact),
		WithGrid(2, 5),
		WithSpacing(4, 2),
		WithJPEGQuality(70),
		WithWatermark("studio", 0.5),
		WithDecoder(DecoderNative),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cfg := gen.config
	if cfg.Grid != (Grid{Rows: 2, Columns: 5}) {
		t.Errorf("Grid = %v, want 2x5", cfg.Grid)
	}
	// Width comes from the preset.
	if cfg.Width != 1280 {
		t.Errorf("Width = %d, want 1280", cfg.Width)
	}
	if cfg.Padding != 4 || cfg.Spacing != 2 {
		t.Errorf("Padding/Spacing = %d/%d, want 4/2", cfg.Padding, cfg.Spacing)
	}
	if cfg.JPEGQuality != 70 {
		t.Errorf("JPEGQuality = %d, want 70", cfg.JPEGQuality)
	}
	if cfg.Watermark != "studio" || cfg.WatermarkOpacity != 0.5 {
		t.Errorf("Watermark = %q@%v", cfg.Watermark, cfg.WatermarkOpacity)
	}
	if cfg.Decoder != DecoderNative {
		t.Errorf("Decoder = %q, want native", cfg.Decoder)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"zero rows", WithGrid(0, 3), config.ErrInvalidGrid},
		{"quality over max", WithJPEGQuality(101), config.ErrInvalidQuality},
		{"opacity over one", WithWatermark("x", 1.5), config.ErrInvalidOpacity},
		{"negative height", WithHeight(-1), config.ErrInvalidDimensions},
		{"unknown decoder", WithDecoder("vlc"), config.ErrInvalidDecoder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
			if !IsKind(err, KindConfig) {
				t.Errorf("New() error = %v, want Config error", err)
			}
		})
	}
}

func TestNew_WithStyle(t *testing.T) {
	style, err := config.ParseStyle([]byte("grid: 2x2\nwatermark:\n  enabled: false\n"))
	if err != nil {
		t.Fatal(err)
	}

	gen, err := New(WithStyle(style), WithWidth(800))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if gen.config.Grid.Cells() != 4 || gen.config.Width != 800 {
		t.Errorf("config = %+v", gen.config)
	}
	if gen.config.WatermarkEnabled() {
		t.Error("watermark should be disabled by style")
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid("4x6")
	if err != nil {
		t.Fatalf("ParseGrid() error = %v", err)
	}
	if g.Rows != 4 || g.Columns != 6 {
		t.Errorf("ParseGrid() = %v, want 4x6", g)
	}
	if _, err := ParseGrid("4by6"); err == nil {
		t.Error("ParseGrid(4by6) expected error")
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "sheet.bmp")

	var events []Event
	gen, err := New()
	if err != nil {
		t.Fatal(err)
	}

	_, err = gen.Generate(context.Background(), filepath.Join(dir, "movie.mp4"), output, func(e Event) error {
		events = append(events, e)
		return nil
	})
	if !IsKind(err, KindUnsupportedFormat) {
		t.Fatalf("Generate() error = %v, want unsupported format", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("no output file expected")
	}

	if len(events) != 1 || events[0].Type() != EventTypeError {
		t.Fatalf("events = %v, want one error event", events)
	}
}

func TestGenerate_MissingInput(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatal(err)
	}
	_, err = gen.Generate(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), "", nil)
	if !IsKind(err, KindOpen) {
		t.Errorf("Generate() error = %v, want Open error", err)
	}
}

func TestEventReporter(t *testing.T) {
	var got []Event
	r := newEventReporter(func(e Event) error {
		got = append(got, e)
		return nil
	})

	r.SamplingProgress(reporter.SamplingSnapshot{Current: 3, Total: 9, Timestamp: "02:46", Percent: 33.3})
	r.Warning("font fallback")
	r.Hardware(reporter.HardwareSummary{Hostname: "ignored"})

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	progress, ok := got[0].(SamplingProgressEvent)
	if !ok {
		t.Fatalf("event 0 = %T, want SamplingProgressEvent", got[0])
	}
	if progress.CurrentFrame != 3 || progress.FrameTimestamp != "02:46" {
		t.Errorf("progress = %+v", progress)
	}
	if got[1].Type() != EventTypeWarning {
		t.Errorf("event 1 type = %s, want warning", got[1].Type())
	}
	if got[0].Timestamp() == 0 {
		t.Error("timestamp not set")
	}
}
