package util

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// VideoExtensions is the list of supported video file extensions.
var VideoExtensions = map[string]bool{
	".mkv":  true,
	".wmv":  true,
	".ts":   true,
	".avi":  true,
	".mp4":  true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".m2ts": true,
	".ogv":  true,
	".vob":  true,
}

// ThumbnailSuffix is appended to the input stem to name the default output.
const ThumbnailSuffix = "_thumbnail"

// DefaultOutputExt is the extension of the default output file.
const DefaultOutputExt = ".jpg"

// IsVideoFile checks if the given path is a regular file with a video extension.
func IsVideoFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return VideoExtensions[ext]
}

// GetFilename returns the filename from a path.
func GetFilename(path string) string {
	return filepath.Base(path)
}

// GetFileStem returns the filename without extension.
func GetFileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SanitizeStem replaces every character that is not a letter, digit or
// underscore with an underscore.
func SanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "video"
	}
	return b.String()
}

// DefaultOutputPath returns <dir>/<sanitized stem>_thumbnail.jpg. When
// outputDir is empty the directory of the input is used.
func DefaultOutputPath(inputPath, outputDir string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	name := SanitizeStem(GetFileStem(inputPath)) + ThumbnailSuffix + DefaultOutputExt
	return filepath.Join(outputDir, name)
}
