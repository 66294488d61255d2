package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Style is the on-disk YAML form of layout and annotation settings.
// Unset fields leave the current config value untouched.
type Style struct {
	Preset    *string         `yaml:"preset"`
	Grid      *string         `yaml:"grid"`
	Width     *int            `yaml:"width"`
	Height    *int            `yaml:"height"`
	Padding   *int            `yaml:"padding"`
	Spacing   *int            `yaml:"spacing"`
	Quality   *int            `yaml:"quality"`
	Font      *string         `yaml:"font"`
	Decoder   *string         `yaml:"decoder"`
	Watermark *WatermarkStyle `yaml:"watermark"`
}

// WatermarkStyle holds the watermark block of a style file.
type WatermarkStyle struct {
	Enabled *bool    `yaml:"enabled"`
	Text    *string  `yaml:"text"`
	Image   *string  `yaml:"image"`
	Opacity *float64 `yaml:"opacity"`
}

// LoadStyle reads and parses a YAML style file.
func LoadStyle(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}
	return ParseStyle(data)
}

// ParseStyle parses YAML style data. Unknown keys are rejected.
func ParseStyle(data []byte) (*Style, error) {
	var style Style
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&style); err != nil {
		if errors.Is(err, io.EOF) {
			return &style, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}
	return &style, nil
}

// ApplyStyle overlays the set fields of s onto the config. A preset named
// in the style is applied first so the remaining fields override it.
func (c *Config) ApplyStyle(s *Style) error {
	if s == nil {
		return nil
	}

	if s.Preset != nil {
		p, err := ParsePreset(*s.Preset)
		if err != nil {
			return err
		}
		c.ApplyPreset(p)
	}

	if s.Grid != nil {
		grid, err := ParseGrid(*s.Grid)
		if err != nil {
			return err
		}
		c.Grid = grid
	}

	setInt(&c.Width, s.Width)
	setInt(&c.Height, s.Height)
	setInt(&c.Padding, s.Padding)
	setInt(&c.Spacing, s.Spacing)
	setInt(&c.JPEGQuality, s.Quality)

	if s.Font != nil {
		c.FontPath = *s.Font
	}

	if s.Decoder != nil {
		d, err := ParseDecoder(*s.Decoder)
		if err != nil {
			return err
		}
		c.Decoder = d
	}

	if w := s.Watermark; w != nil {
		if w.Enabled != nil {
			c.DisableWatermark = !*w.Enabled
		}
		if w.Text != nil {
			c.Watermark = *w.Text
		}
		if w.Image != nil {
			c.WatermarkImage = *w.Image
		}
		if w.Opacity != nil {
			c.WatermarkOpacity = *w.Opacity
		}
	}

	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
