package layout

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/video"
)

func defaultSpec() Spec {
	return Spec{
		Grid:        config.GridSpec{Rows: 3, Columns: 3},
		MaxWidth:    1920,
		Padding:     30,
		Spacing:     20,
		FrameAspect: 16.0 / 9.0,
		Footer:      true,
	}
}

func TestCompute_WidthDriven(t *testing.T) {
	l, err := Compute(defaultSpec())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// (1920 - 60 - 40) / 3 = 606
	if l.CellWidth != 606 {
		t.Errorf("CellWidth = %d, want 606", l.CellWidth)
	}
	// round(606 / 1.7778) = 341
	if l.CellHeight != 341 {
		t.Errorf("CellHeight = %d, want 341", l.CellHeight)
	}
	if l.CanvasWidth != 606*3+40+60 {
		t.Errorf("CanvasWidth = %d, want %d", l.CanvasWidth, 606*3+40+60)
	}
	if l.CanvasWidth > 1920 {
		t.Errorf("CanvasWidth %d exceeds budget", l.CanvasWidth)
	}

	// Header font is 1.5% of the canvas width: int(1918*0.015) = 28.
	if l.HeaderFontSize != 28 || l.LineSpacing != 33 {
		t.Errorf("HeaderFontSize/LineSpacing = %d/%d, want 28/33", l.HeaderFontSize, l.LineSpacing)
	}
	if l.HeaderHeight != 5*33+60 {
		t.Errorf("HeaderHeight = %d, want %d", l.HeaderHeight, 5*33+60)
	}
	if l.FooterHeight != 60 {
		t.Errorf("FooterHeight = %d, want 60", l.FooterHeight)
	}

	wantHeight := l.HeaderHeight + 3*341 + 2*20 + 30 + 60
	if l.CanvasHeight != wantHeight {
		t.Errorf("CanvasHeight = %d, want %d", l.CanvasHeight, wantHeight)
	}
}

func TestCompute_NoFooter(t *testing.T) {
	spec := defaultSpec()
	spec.Footer = false
	l, err := Compute(spec)
	if err != nil {
		t.Fatal(err)
	}
	if l.FooterHeight != 0 || !l.Footer().Empty() {
		t.Errorf("expected no footer, got %d", l.FooterHeight)
	}
	if l.CanvasHeight != l.GridBottom()+l.Padding {
		t.Errorf("CanvasHeight = %d, want grid bottom + padding = %d", l.CanvasHeight, l.GridBottom()+l.Padding)
	}
}

func TestCompute_HeightDriven(t *testing.T) {
	spec := defaultSpec()
	spec.Height = 1200

	l, err := Compute(spec)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if l.CanvasHeight != 1200 {
		t.Errorf("CanvasHeight = %d, want 1200", l.CanvasHeight)
	}
	want := (1200 - l.HeaderHeight - l.FooterHeight - 30 - 40) / 3
	if l.CellHeight != want {
		t.Errorf("CellHeight = %d, want %d", l.CellHeight, want)
	}
	if l.GridBottom() > l.CanvasHeight-l.FooterHeight {
		t.Error("grid overlaps the footer")
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Spec)
	}{
		{"zero rows", func(s *Spec) { s.Grid.Rows = 0 }},
		{"zero columns", func(s *Spec) { s.Grid.Columns = 0 }},
		{"zero aspect", func(s *Spec) { s.FrameAspect = 0 }},
		{"width too small", func(s *Spec) { s.MaxWidth = 100 }},
		{"height too small", func(s *Spec) { s.Height = 200 }},
		{"negative spacing", func(s *Spec) { s.Spacing = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := defaultSpec()
			tt.modify(&spec)
			if _, err := Compute(spec); !coreerr.IsKind(err, coreerr.KindLayout) {
				t.Errorf("Compute() error = %v, want Layout error", err)
			}
		})
	}
}

func TestCellPositions(t *testing.T) {
	l, err := Compute(defaultSpec())
	if err != nil {
		t.Fatal(err)
	}

	first := l.Cell(0)
	if first.Min != image.Pt(30, l.HeaderHeight) {
		t.Errorf("Cell(0).Min = %v, want (30,%d)", first.Min, l.HeaderHeight)
	}

	// Row 1, column 2
	c := l.Cell(5)
	wantX := 30 + 2*(606+20)
	wantY := l.HeaderHeight + 1*(341+20)
	if c.Min != image.Pt(wantX, wantY) || c.Dx() != 606 || c.Dy() != 341 {
		t.Errorf("Cell(5) = %v, want origin (%d,%d) size 606x341", c, wantX, wantY)
	}

	last := l.Cell(8)
	if last.Max.X != l.CanvasWidth-l.Padding {
		t.Errorf("last cell right edge = %d, want %d", last.Max.X, l.CanvasWidth-l.Padding)
	}
	if last.Max.Y != l.GridBottom() {
		t.Errorf("last cell bottom = %d, want %d", last.Max.Y, l.GridBottom())
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                     string
		srcW, srcH, cellW, cellH int
		want                     image.Rectangle
	}{
		{"exact", 640, 360, 640, 360, image.Rect(0, 0, 640, 360)},
		{"downscale same aspect", 1920, 1080, 640, 360, image.Rect(0, 0, 640, 360)},
		// 4:3 in a 16:9 cell: pillarbox
		{"pillarbox", 640, 480, 640, 360, image.Rect(80, 0, 560, 360)},
		// 2.39:1 in a 16:9 cell: letterbox
		{"letterbox", 1920, 800, 640, 360, image.Rect(0, 46, 640, 313)},
		{"upscale", 160, 90, 320, 180, image.Rect(0, 0, 320, 180)},
		{"extreme strip", 10000, 1, 100, 100, image.Rect(0, 49, 100, 50)},
		{"invalid", 0, 10, 100, 100, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.srcW, tt.srcH, tt.cellW, tt.cellH)
			if got != tt.want {
				t.Errorf("Fit(%d,%d,%d,%d) = %v, want %v", tt.srcW, tt.srcH, tt.cellW, tt.cellH, got, tt.want)
			}
		})
	}
}

func TestFitPreservesAspect(t *testing.T) {
	for _, src := range [][2]int{{1920, 1080}, {720, 480}, {1080, 1920}, {2048, 858}} {
		r := Fit(src[0], src[1], 606, 341)
		srcAspect := float64(src[0]) / float64(src[1])
		gotAspect := float64(r.Dx()) / float64(r.Dy())
		// Rounding moves each side by at most half a pixel.
		tolerance := 1 / float64(min(r.Dx(), r.Dy()))
		if math.Abs(gotAspect-srcAspect)/srcAspect > tolerance {
			t.Errorf("Fit(%v) aspect = %f, want %f", src, gotAspect, srcAspect)
		}
		if r.Dx() > 606 || r.Dy() > 341 {
			t.Errorf("Fit(%v) = %v exceeds cell", src, r)
		}
	}
}

func solidFrame(w, h int, c color.RGBA) *video.SampledFrame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &video.SampledFrame{Image: img}
}

func TestCompose(t *testing.T) {
	spec := defaultSpec()
	spec.Grid = config.GridSpec{Rows: 2, Columns: 2}
	spec.MaxWidth = 400
	spec.Padding = 10
	spec.Spacing = 10
	spec.FrameAspect = 4.0 / 3.0

	l, err := Compute(spec)
	if err != nil {
		t.Fatal(err)
	}

	red := color.RGBA{R: 255, A: 255}
	frames := []*video.SampledFrame{
		solidFrame(640, 480, red),
		solidFrame(640, 480, red),
		solidFrame(640, 480, red),
		solidFrame(1280, 720, red), // wider than the cell aspect: letterboxed
	}

	sheet, err := Compose(l, frames, DefaultStyle())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if sheet.Image.Bounds() != image.Rect(0, 0, l.CanvasWidth, l.CanvasHeight) {
		t.Errorf("canvas bounds = %v", sheet.Image.Bounds())
	}
	if len(sheet.Frames) != 4 {
		t.Fatalf("len(Frames) = %d, want 4", len(sheet.Frames))
	}

	// Background is white outside the grid.
	if got := sheet.Image.RGBAAt(1, 1); got != DefaultStyle().Background {
		t.Errorf("background pixel = %v, want white", got)
	}

	// Centre of every frame is red.
	for i, r := range sheet.Frames {
		c := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
		if got := sheet.Image.RGBAAt(c.X, c.Y); got.R < 250 || got.G > 5 {
			t.Errorf("frame %d centre pixel = %v, want red", i, got)
		}
		if !r.In(l.Cell(i)) {
			t.Errorf("frame %d rect %v outside its cell %v", i, r, l.Cell(i))
		}
	}

	// The 16:9 frame leaves black bars at the top of its 4:3 cell.
	cell := l.Cell(3)
	if sheet.Frames[3].Min.Y <= cell.Min.Y {
		t.Fatalf("expected letterbox bars, frame rect %v cell %v", sheet.Frames[3], cell)
	}
	if got := sheet.Image.RGBAAt(cell.Min.X+cell.Dx()/2, cell.Min.Y); got != DefaultStyle().Letterbox {
		t.Errorf("letterbox pixel = %v, want black", got)
	}
}

func TestCompose_FrameCountMismatch(t *testing.T) {
	l, err := Compute(defaultSpec())
	if err != nil {
		t.Fatal(err)
	}
	frames := []*video.SampledFrame{solidFrame(16, 9, color.RGBA{A: 255})}

	if _, err := Compose(l, frames, DefaultStyle()); !coreerr.IsKind(err, coreerr.KindLayout) {
		t.Errorf("Compose() error = %v, want Layout error", err)
	}
}
