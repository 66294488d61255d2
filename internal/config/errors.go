package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidGrid indicates a grid string that is not "RxC" with R, C >= 1.
	ErrInvalidGrid = errors.New("invalid grid")

	// ErrInvalidPreset indicates an unknown preset name was provided.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrInvalidQuality indicates a JPEG quality outside 1-100.
	ErrInvalidQuality = errors.New("JPEG quality out of range")

	// ErrInvalidOpacity indicates a watermark opacity outside 0-1.
	ErrInvalidOpacity = errors.New("watermark opacity out of range")

	// ErrInvalidDimensions indicates a non-positive canvas width or negative height, padding or spacing.
	ErrInvalidDimensions = errors.New("invalid canvas dimensions")

	// ErrInvalidDecoder indicates an unknown decoder backend name.
	ErrInvalidDecoder = errors.New("invalid decoder")

	// ErrInvalidStyle indicates a style file that could not be read or parsed.
	ErrInvalidStyle = errors.New("invalid style file")
)
