package validation

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"os"
)

// DefaultAnalyzer implements ImageAnalyzer by decoding the image header.
type DefaultAnalyzer struct{}

// NewDefaultAnalyzer creates a new DefaultAnalyzer instance.
func NewDefaultAnalyzer() *DefaultAnalyzer {
	return &DefaultAnalyzer{}
}

// GetImageProperties reads the image header at path.
func (a *DefaultAnalyzer) GetImageProperties(path string) (*ImageProperties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}

	return &ImageProperties{
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		SizeBytes: info.Size(),
	}, nil
}
