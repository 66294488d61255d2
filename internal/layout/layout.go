// Package layout computes contact sheet geometry and places scaled frames
// on the canvas.
package layout

import (
	"fmt"
	"image"
	"math"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
)

// Header text metrics, relative to the canvas width.
const (
	HeaderFontRatio  = 0.015
	HeaderLineExtra  = 5
	HeaderLineCount  = 5
	LabelFontRatio   = 0.06
	minFontSizePixel = 6
)

// Spec is the input to Compute.
type Spec struct {
	Grid        config.GridSpec
	MaxWidth    int     // Canvas width budget
	Height      int     // Fixed canvas height; 0 derives it from FrameAspect
	Padding     int     // Margin around the sheet
	Spacing     int     // Gap between cells
	FrameAspect float64 // Source width/height
	Footer      bool    // Reserve a watermark band below the grid
}

// Layout is the resolved geometry of a contact sheet. All coordinates are
// canvas pixels.
type Layout struct {
	Grid           config.GridSpec
	CanvasWidth    int
	CanvasHeight   int
	CellWidth      int
	CellHeight     int
	Padding        int
	Spacing        int
	HeaderHeight   int
	FooterHeight   int
	HeaderFontSize int
	LineSpacing    int
}

// HeaderFontSize returns the header font size for a canvas width.
func HeaderFontSize(canvasWidth int) int {
	return max(int(float64(canvasWidth)*HeaderFontRatio), minFontSizePixel)
}

// LabelFontSize returns the timestamp label font size for a cell width.
func LabelFontSize(cellWidth int) int {
	return max(int(float64(cellWidth)*LabelFontRatio), minFontSizePixel)
}

// Compute resolves a Spec into concrete geometry.
//
// Width-driven (Height == 0): cells are as wide as the width budget allows
// and as tall as the frame aspect ratio requires. The canvas is trimmed to
// the grid width.
//
// Height-driven (Height > 0): the canvas height is fixed, cell height is
// what remains after header, footer and gaps, and frames are letterboxed
// inside cells.
func Compute(spec Spec) (Layout, error) {
	g := spec.Grid
	if g.Rows < 1 || g.Columns < 1 {
		return Layout{}, coreerr.NewLayoutError(fmt.Sprintf("grid must have at least one row and column, got %s", g))
	}
	if spec.FrameAspect <= 0 || math.IsNaN(spec.FrameAspect) || math.IsInf(spec.FrameAspect, 0) {
		return Layout{}, coreerr.NewLayoutError(fmt.Sprintf("invalid frame aspect ratio %v", spec.FrameAspect))
	}
	if spec.Padding < 0 || spec.Spacing < 0 || spec.Height < 0 {
		return Layout{}, coreerr.NewLayoutError(fmt.Sprintf("negative geometry: padding=%d spacing=%d height=%d",
			spec.Padding, spec.Spacing, spec.Height))
	}

	available := spec.MaxWidth - 2*spec.Padding - spec.Spacing*(g.Columns-1)
	cellW := available / g.Columns
	if cellW <= 0 {
		return Layout{}, coreerr.NewLayoutError(fmt.Sprintf("canvas width %d leaves no room for %d columns with padding %d and spacing %d",
			spec.MaxWidth, g.Columns, spec.Padding, spec.Spacing))
	}

	l := Layout{
		Grid:      g,
		CellWidth: cellW,
		Padding:   spec.Padding,
		Spacing:   spec.Spacing,
	}
	l.CanvasWidth = cellW*g.Columns + spec.Spacing*(g.Columns-1) + 2*spec.Padding
	l.HeaderFontSize = HeaderFontSize(l.CanvasWidth)
	l.LineSpacing = l.HeaderFontSize + HeaderLineExtra
	l.HeaderHeight = HeaderLineCount*l.LineSpacing + 2*spec.Padding
	if spec.Footer {
		l.FooterHeight = 2 * spec.Padding
	}

	fixed := l.HeaderHeight + spec.Padding + l.FooterHeight + spec.Spacing*(g.Rows-1)
	if spec.Height > 0 {
		l.CellHeight = (spec.Height - fixed) / g.Rows
		l.CanvasHeight = spec.Height
	} else {
		l.CellHeight = int(math.Round(float64(cellW) / spec.FrameAspect))
		l.CanvasHeight = fixed + g.Rows*l.CellHeight
	}
	if l.CellHeight <= 0 {
		return Layout{}, coreerr.NewLayoutError(fmt.Sprintf("canvas height %d leaves no room for %d rows", spec.Height, g.Rows))
	}

	return l, nil
}

// Cell returns the rectangle of the cell at index (row-major).
func (l Layout) Cell(index int) image.Rectangle {
	row := index / l.Grid.Columns
	col := index % l.Grid.Columns
	x := l.Padding + col*(l.CellWidth+l.Spacing)
	y := l.HeaderHeight + row*(l.CellHeight+l.Spacing)
	return image.Rect(x, y, x+l.CellWidth, y+l.CellHeight)
}

// GridBottom returns the y coordinate just below the last row of cells.
func (l Layout) GridBottom() int {
	return l.HeaderHeight + l.Grid.Rows*l.CellHeight + l.Spacing*(l.Grid.Rows-1)
}

// Footer returns the watermark band. It is empty when no footer was reserved.
func (l Layout) Footer() image.Rectangle {
	if l.FooterHeight == 0 {
		return image.Rectangle{}
	}
	return image.Rect(0, l.CanvasHeight-l.FooterHeight, l.CanvasWidth, l.CanvasHeight)
}

// Fit scales a srcW x srcH frame to fit inside a cellW x cellH cell without
// cropping and centres it. The returned rectangle is relative to the cell
// origin; each side is at least one pixel.
func Fit(srcW, srcH, cellW, cellH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || cellW <= 0 || cellH <= 0 {
		return image.Rectangle{}
	}

	scale := math.Min(float64(cellW)/float64(srcW), float64(cellH)/float64(srcH))
	w := min(max(int(math.Round(float64(srcW)*scale)), 1), cellW)
	h := min(max(int(math.Round(float64(srcH)*scale)), 1), cellH)

	x := (cellW - w) / 2
	y := (cellH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
