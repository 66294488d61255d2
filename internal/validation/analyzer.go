// Package validation provides post-write validation checks.
package validation

// ImageAnalyzer inspects written images for validation.
// This interface allows validation logic to be tested without touching disk.
type ImageAnalyzer interface {
	// GetImageProperties returns the encoding and size of the image at path.
	GetImageProperties(path string) (*ImageProperties, error)
}

// ImageProperties contains the image information needed for validation.
type ImageProperties struct {
	Format    string // "jpeg" or "png", as reported by the image decoder
	Width     int
	Height    int
	SizeBytes int64
}
