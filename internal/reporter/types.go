// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// HardwareSummary contains host information.
type HardwareSummary struct {
	Hostname string
	CPUs     int
	OS       string
}

// InitializationSummary describes the current video before sampling.
type InitializationSummary struct {
	InputFile  string
	OutputFile string
	Duration   string
	Resolution string
	FrameRate  string
	FileSize   string
	Codec      string
	Decoder    string
}

// LayoutSummary describes the contact sheet being produced.
type LayoutSummary struct {
	Grid      string
	Frames    int
	Canvas    string // "WxH"
	Cell      string // "WxH"
	Preset    string
	Format    string
	Quality   int
	Watermark string
}

// SamplingSnapshot contains frame sampling progress.
type SamplingSnapshot struct {
	Current   int
	Total     int
	Timestamp string // Label of the frame just decoded
	Percent   float32
}

// ValidationSummary contains validation results.
type ValidationSummary struct {
	Passed bool
	Steps  []ValidationStep
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// ThumbnailOutcome contains the final result for one video.
type ThumbnailOutcome struct {
	InputFile  string
	OutputFile string
	OutputPath string
	OutputSize uint64
	Width      int
	Height     int
	Frames     int
	TotalTime  time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
	OutputDir  string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	TotalFiles      int
	TotalOutputSize uint64
	TotalDuration   time.Duration
	FileResults     []FileResult
}

// FileResult contains per-file result.
type FileResult struct {
	Filename   string
	OutputPath string
	OutputSize uint64
}

// StageProgress represents a generic stage update.
type StageProgress struct {
	Stage   string
	Percent float32
	Message string
}
