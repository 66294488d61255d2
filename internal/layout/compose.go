package layout

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"

	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/video"
)

// Style holds the colours used when composing the grid.
type Style struct {
	Background color.RGBA
	Letterbox  color.RGBA
}

// DefaultStyle returns a white sheet with black letterbox bars.
func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Letterbox:  color.RGBA{A: 255},
	}
}

// Sheet is a composed contact sheet ready for annotation.
type Sheet struct {
	Image  *image.RGBA
	Layout Layout
	// Frames holds the drawn area of each frame in canvas coordinates,
	// indexed like the input frames.
	Frames []image.Rectangle
}

// Compose allocates the canvas and draws every frame into its cell, scaled
// to fit and centred. The number of frames must equal the number of cells.
func Compose(l Layout, frames []*video.SampledFrame, style Style) (*Sheet, error) {
	if len(frames) != l.Grid.Cells() {
		return nil, coreerr.NewLayoutError(fmt.Sprintf("grid %s needs %d frames, got %d", l.Grid, l.Grid.Cells(), len(frames)))
	}
	if l.CanvasWidth <= 0 || l.CanvasHeight <= 0 {
		return nil, coreerr.NewLayoutError(fmt.Sprintf("invalid canvas %dx%d", l.CanvasWidth, l.CanvasHeight))
	}

	canvas := image.NewRGBA(image.Rect(0, 0, l.CanvasWidth, l.CanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	letterbox := image.NewUniform(style.Letterbox)
	placed := make([]image.Rectangle, len(frames))

	for i, frame := range frames {
		if frame == nil || frame.Image == nil {
			return nil, coreerr.NewLayoutError(fmt.Sprintf("frame %d is missing", i))
		}

		cell := l.Cell(i)
		src := frame.Image.Bounds()
		fit := Fit(src.Dx(), src.Dy(), cell.Dx(), cell.Dy())
		if fit.Empty() {
			return nil, coreerr.NewLayoutError(fmt.Sprintf("frame %d (%dx%d) cannot be fitted into a %dx%d cell",
				i, src.Dx(), src.Dy(), cell.Dx(), cell.Dy()))
		}
		dst := fit.Add(cell.Min)

		if dst != cell {
			draw.Draw(canvas, cell, letterbox, image.Point{}, draw.Src)
		}

		var scaled image.Image = frame.Image
		if fit.Dx() != src.Dx() || fit.Dy() != src.Dy() {
			scaled = resize.Resize(uint(fit.Dx()), uint(fit.Dy()), frame.Image, resize.Lanczos3)
		}
		draw.Draw(canvas, dst, scaled, scaled.Bounds().Min, draw.Src)
		placed[i] = dst
	}

	return &Sheet{Image: canvas, Layout: l, Frames: placed}, nil
}
