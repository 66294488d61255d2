// Package writer encodes the finished contact sheet and writes it to disk
// atomically.
package writer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/logging"
	"github.com/five82/thumbr/internal/util"
)

// Format is an output image encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Options controls encoding.
type Options struct {
	JPEGQuality int // 1-100; 0 selects the default
}

// FormatForPath returns the encoding selected by the extension of path.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", coreerr.NewUnsupportedFormatError(path, ext)
	}
}

// Write encodes img in the format implied by the extension of path and
// replaces path atomically. Parent directories are created as needed. On
// failure no partial file is left behind.
func Write(img image.Image, path string, opts Options) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, format, opts); err != nil {
		return coreerr.NewWriteError(path, "failed to encode image", err)
	}

	dir := filepath.Dir(path)
	if err := util.EnsureDirectory(dir); err != nil {
		return coreerr.NewWriteError(path, "failed to create output directory", err)
	}

	if need := uint64(buf.Len()); !util.HasEnoughSpace(dir, need) {
		return coreerr.NewWriteError(path,
			fmt.Sprintf("not enough free space: need %s, have %s",
				util.FormatBytes(need), util.FormatBytes(util.AvailableSpace(dir))), nil)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := writeFileSync(tmpPath, buf.Bytes()); err != nil {
		os.Remove(tmpPath)
		return coreerr.NewWriteError(path, "failed to write image", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return coreerr.NewWriteError(path, "failed to move image into place", err)
	}

	logging.Debug("wrote image", "path", path, "format", string(format), "bytes", buf.Len())
	return nil
}

func encode(buf *bytes.Buffer, img image.Image, format Format, opts Options) error {
	switch format {
	case FormatPNG:
		return png.Encode(buf, img)
	default:
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = config.DefaultJPEGQuality
		}
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: min(quality, config.MaxJPEGQuality)})
	}
}

// writeFileSync creates path exclusively, writes data and flushes it to
// stable storage before closing.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
