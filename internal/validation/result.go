package validation

import "fmt"

// Result contains the overall validation result.
type Result struct {
	IsReadable          bool
	IsFormatCorrect     bool
	IsDimensionsCorrect bool

	// Details
	Format             string
	ExpectedFormat     string
	ActualDimensions   *[2]int
	ExpectedDimensions *[2]int
	SizeBytes          int64
	ReadMessage        string
	DimensionsMessage  string
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// IsValid returns true if all validation checks passed.
func (r *Result) IsValid() bool {
	return r.IsReadable &&
		r.IsFormatCorrect &&
		r.IsDimensionsCorrect
}

// GetValidationSteps returns all validation steps with results.
func (r *Result) GetValidationSteps() []ValidationStep {
	return []ValidationStep{
		{
			Name:    "Readable image",
			Passed:  r.IsReadable,
			Details: r.ReadMessage,
		},
		{
			Name:    "Image format",
			Passed:  r.IsFormatCorrect,
			Details: formatDetails(r.Format, r.ExpectedFormat, r.IsFormatCorrect),
		},
		{
			Name:    "Dimensions",
			Passed:  r.IsDimensionsCorrect,
			Details: r.DimensionsMessage,
		},
	}
}

// GetFailures returns descriptions of failed validation checks.
func (r *Result) GetFailures() []string {
	var failures []string
	for _, step := range r.GetValidationSteps() {
		if !step.Passed {
			failures = append(failures, step.Name+": "+step.Details)
		}
	}
	return failures
}

func formatDetails(actual, expected string, passed bool) string {
	if passed {
		return actual
	}
	if actual == "" {
		return "Unknown format"
	}
	return fmt.Sprintf("Expected %s, got %s", expected, actual)
}
