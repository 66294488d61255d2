// Package util provides utility functions for formatting and common operations.
package util

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const (
	KiB = 1024
	MiB = KiB * 1024
	GiB = MiB * 1024
)

// FormatBytes formats bytes with binary units (B, KiB, MiB, GiB).
func FormatBytes(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// FormatFileSize formats a file size with one decimal in the largest unit
// below 1024, e.g. "512.0 B", "12.3 MB" or "4.0 GB".
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

// FormatDuration formats seconds as H:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "?:??:??"
	}

	totalSecs := int64(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}

// FormatTimestamp formats a position within a video. Videos shorter than
// an hour use MM:SS, longer ones H:MM:SS.
func FormatTimestamp(seconds, totalDuration float64) string {
	if totalDuration >= 3600 {
		return FormatDuration(seconds)
	}
	if seconds < 0 || math.IsNaN(seconds) {
		return "??:??"
	}
	totalSecs := int64(seconds)
	return fmt.Sprintf("%02d:%02d", totalSecs/60, totalSecs%60)
}

// FormatFrameRate formats a frame rate rounded to two decimals.
func FormatFrameRate(fps float64) string {
	return fmt.Sprintf("%.2f fps", fps)
}

// FormatResolution formats dimensions as WxH.
func FormatResolution(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}
