// Package annotate draws the metadata header, per-frame timestamp labels and
// the optional watermark onto a composed contact sheet.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // watermark images
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/five82/thumbr/internal/layout"
	"github.com/five82/thumbr/internal/logging"
	"github.com/five82/thumbr/internal/util"
	"github.com/five82/thumbr/internal/video"
)

// Label geometry, relative to the drawn frame width.
const (
	labelMarginRatio  = 0.02
	labelPaddingRatio = 0.015
	labelBoxAlpha     = 180
)

// Options controls annotation.
type Options struct {
	FontPath         string
	Watermark        string // Footer text; empty for none
	WatermarkImage   string // PNG/JPEG path; empty for none
	WatermarkOpacity float64
}

// Annotator draws text and watermarks. Create one per sheet.
type Annotator struct {
	opts     Options
	fonts    *Fonts
	warnings []string
}

// New creates an Annotator and resolves fonts.
func New(opts Options) *Annotator {
	fonts, warning := LoadFonts(opts.FontPath)
	a := &Annotator{opts: opts, fonts: fonts}
	if warning != "" {
		a.warnings = append(a.warnings, warning)
	}
	return a
}

// Warnings returns non-fatal problems met while annotating.
func (a *Annotator) Warnings() []string {
	return a.warnings
}

// HeaderLines returns the metadata lines printed above the grid.
func HeaderLines(meta video.Metadata) []string {
	return []string{
		"Filename: " + meta.Filename,
		"Duration: " + util.FormatDuration(meta.DurationSecs),
		"Resolution: " + util.FormatResolution(meta.Width, meta.Height),
		"Frame Rate: " + util.FormatFrameRate(meta.FrameRate),
		"File Size: " + util.FormatFileSize(meta.FileSizeBytes),
	}
}

// Annotate draws the header, one label per frame and the watermark onto
// sheet in place. Rendering problems never fail the run; they are collected
// as warnings.
func (a *Annotator) Annotate(sheet *layout.Sheet, meta video.Metadata, frames []*video.SampledFrame) {
	a.drawHeader(sheet, meta)

	labelFace := a.fonts.Face(layout.LabelFontSize(sheet.Layout.CellWidth), false)
	for i, frame := range frames {
		if i >= len(sheet.Frames) {
			break
		}
		label := util.FormatTimestamp(frame.TimestampSecs, meta.DurationSecs)
		drawLabel(sheet.Image, sheet.Frames[i], label, labelFace)
	}

	if a.opts.WatermarkOpacity > 0 {
		if a.opts.Watermark != "" {
			a.drawWatermarkText(sheet)
		}
		if a.opts.WatermarkImage != "" {
			if err := a.drawWatermarkImage(sheet); err != nil {
				a.warnings = append(a.warnings, err.Error())
				logging.Warn("watermark image skipped", "path", a.opts.WatermarkImage, "error", err)
			}
		}
	}
}

func (a *Annotator) drawHeader(sheet *layout.Sheet, meta video.Metadata) {
	l := sheet.Layout
	face := a.fonts.Face(l.HeaderFontSize, false)
	ascent := face.Metrics().Ascent.Ceil()

	d := &font.Drawer{Dst: sheet.Image, Src: image.NewUniform(color.Black), Face: face}
	y := l.Padding
	for _, line := range HeaderLines(meta) {
		d.Dot = fixed.P(l.Padding, y+ascent)
		d.DrawString(line)
		y += l.LineSpacing
	}
}

// drawLabel draws text in a translucent box at the bottom-right corner of
// the frame rectangle.
func drawLabel(dst *image.RGBA, frame image.Rectangle, text string, face font.Face) {
	margin := int(float64(frame.Dx()) * labelMarginRatio)
	pad := int(float64(frame.Dx()) * labelPaddingRatio)

	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	textW := font.MeasureString(face, text).Ceil()

	box := image.Rect(
		frame.Max.X-margin-textW-2*pad,
		frame.Max.Y-margin-ascent-descent-2*pad,
		frame.Max.X-margin,
		frame.Max.Y-margin,
	).Intersect(frame)
	if box.Empty() {
		return
	}

	draw.Draw(dst, box, image.NewUniform(color.NRGBA{A: labelBoxAlpha}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  clipped(dst, frame),
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(box.Min.X+pad, box.Min.Y+pad+ascent),
	}
	d.DrawString(text)
}

func (a *Annotator) drawWatermarkText(sheet *layout.Sheet) {
	l := sheet.Layout
	band := l.Footer()
	if band.Empty() {
		return
	}

	face := a.fonts.Face(layout.HeaderFontSize(l.CanvasWidth), true)
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	textW := font.MeasureString(face, a.opts.Watermark).Ceil()

	x := (l.CanvasWidth - textW) / 2
	y := band.Min.Y + (band.Dy()-ascent-descent)/2 + ascent

	d := &font.Drawer{
		Dst:  sheet.Image,
		Src:  image.NewUniform(color.NRGBA{A: opacityAlpha(a.opts.WatermarkOpacity)}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(a.opts.Watermark)
}

// drawWatermarkImage places the image at the right edge of the footer band,
// or the top-right of the header when there is no footer.
func (a *Annotator) drawWatermarkImage(sheet *layout.Sheet) error {
	f, err := os.Open(a.opts.WatermarkImage)
	if err != nil {
		return fmt.Errorf("watermark image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("watermark image %s: %w", a.opts.WatermarkImage, err)
	}

	l := sheet.Layout
	area := l.Footer()
	if area.Empty() {
		area = image.Rect(0, l.Padding, l.CanvasWidth, l.HeaderHeight-l.Padding)
	}
	boxW := l.CanvasWidth / 6
	boxH := area.Dy() * 3 / 4
	if boxW <= 0 || boxH <= 0 {
		return fmt.Errorf("watermark image %s: no room on a %dx%d canvas", a.opts.WatermarkImage, l.CanvasWidth, l.CanvasHeight)
	}

	src := img.Bounds()
	fit := layout.Fit(src.Dx(), src.Dy(), boxW, boxH)
	if fit.Empty() {
		return fmt.Errorf("watermark image %s is empty", a.opts.WatermarkImage)
	}
	scaled := resize.Resize(uint(fit.Dx()), uint(fit.Dy()), img, resize.Lanczos3)

	x := l.CanvasWidth - l.Padding - fit.Dx()
	y := area.Min.Y + (area.Dy()-fit.Dy())/2
	dst := image.Rect(x, y, x+fit.Dx(), y+fit.Dy())

	mask := image.NewUniform(color.Alpha{A: opacityAlpha(a.opts.WatermarkOpacity)})
	draw.DrawMask(sheet.Image, dst, scaled, scaled.Bounds().Min, mask, image.Point{}, draw.Over)
	return nil
}

func opacityAlpha(opacity float64) uint8 {
	return uint8(min(max(opacity, 0), 1)*255 + 0.5)
}

// clipped limits drawing on dst to r.
func clipped(dst *image.RGBA, r image.Rectangle) draw.Image {
	return dst.SubImage(r).(*image.RGBA)
}
