package validation

import (
	"fmt"

	"github.com/five82/thumbr/internal/util"
)

// Options contains optional parameters for validation.
type Options struct {
	ExpectedFormat     string // Empty skips the format check
	ExpectedDimensions *[2]int
}

// ValidateOutputImage re-reads a written contact sheet and checks it.
// It delegates to ValidateWithAnalyzer using the DefaultAnalyzer.
func ValidateOutputImage(outputPath string, opts Options) *Result {
	return ValidateWithAnalyzer(NewDefaultAnalyzer(), outputPath, opts)
}

// validateDimensions checks that dimensions match expected values.
func validateDimensions(actualW, actualH, expectedW, expectedH int) (bool, string) {
	if actualW == expectedW && actualH == expectedH {
		return true, fmt.Sprintf("Dimensions match: %dx%d", actualW, actualH)
	}
	return false, fmt.Sprintf("Dimension mismatch: got %dx%d, expected %dx%d",
		actualW, actualH, expectedW, expectedH)
}

// ValidateWithAnalyzer performs validation using an ImageAnalyzer.
// An unreadable image fails every check.
func ValidateWithAnalyzer(analyzer ImageAnalyzer, outputPath string, opts Options) *Result {
	result := &Result{ExpectedFormat: opts.ExpectedFormat}

	props, err := analyzer.GetImageProperties(outputPath)
	if err != nil {
		result.ReadMessage = fmt.Sprintf("Failed to read output: %v", err)
		result.DimensionsMessage = "Not checked"
		return result
	}

	result.Format = props.Format
	result.SizeBytes = props.SizeBytes
	result.ActualDimensions = &[2]int{props.Width, props.Height}

	if props.SizeBytes <= 0 || props.Width <= 0 || props.Height <= 0 {
		result.ReadMessage = "Output image is empty"
	} else {
		result.IsReadable = true
		result.ReadMessage = fmt.Sprintf("%s on disk", util.FormatBytes(uint64(props.SizeBytes)))
	}

	result.IsFormatCorrect = opts.ExpectedFormat == "" || props.Format == opts.ExpectedFormat

	if opts.ExpectedDimensions != nil {
		result.ExpectedDimensions = opts.ExpectedDimensions
		result.IsDimensionsCorrect, result.DimensionsMessage = validateDimensions(
			props.Width, props.Height,
			opts.ExpectedDimensions[0], opts.ExpectedDimensions[1],
		)
	} else {
		result.IsDimensionsCorrect = true
		result.DimensionsMessage = fmt.Sprintf("%dx%d", props.Width, props.Height)
	}

	return result
}
