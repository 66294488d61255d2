package annotate

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/five82/thumbr/internal/logging"
)

// Fonts resolves typefaces for the header, labels and watermark. A user font
// replaces both the regular and the italic face.
type Fonts struct {
	regular *opentype.Font
	italic  *opentype.Font
}

// LoadFonts loads the font at path, falling back to the embedded Go fonts.
// A non-empty warning describes why the user font was not used.
func LoadFonts(path string) (*Fonts, string) {
	fonts := &Fonts{}
	var warning string

	if path != "" {
		f, err := parseFontFile(path)
		if err == nil {
			fonts.regular = f
			fonts.italic = f
			return fonts, ""
		}
		warning = fmt.Sprintf("could not load font %s, using built-in font: %v", path, err)
		logging.Warn("font load failed", "path", path, "error", err)
	}

	if f, err := opentype.Parse(goregular.TTF); err == nil {
		fonts.regular = f
	}
	if f, err := opentype.Parse(goitalic.TTF); err == nil {
		fonts.italic = f
	} else {
		fonts.italic = fonts.regular
	}
	return fonts, warning
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Collections (.ttc) hold several faces; use the first.
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		return coll.Font(0)
	}
	return opentype.Parse(data)
}

// Face returns a face of the given pixel size. It never fails: when no
// scalable font is available the fixed 7x13 bitmap face is returned.
func (f *Fonts) Face(sizePx int, italic bool) font.Face {
	src := f.regular
	if italic && f.italic != nil {
		src = f.italic
	}
	if src == nil || sizePx <= 0 {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
