package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs one JSON object per line (NDJSON) for machine
// consumers.
type JSONReporter struct {
	writer           io.Writer
	mu               sync.Mutex
	lastProgressTime time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) Hardware(summary HardwareSummary) {
	r.write(map[string]interface{}{
		"type":      "hardware",
		"hostname":  summary.Hostname,
		"cpus":      summary.CPUs,
		"os":        summary.OS,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Initialization(summary InitializationSummary) {
	r.write(map[string]interface{}{
		"type":        "initialization",
		"input_file":  summary.InputFile,
		"output_file": summary.OutputFile,
		"duration":    summary.Duration,
		"resolution":  summary.Resolution,
		"frame_rate":  summary.FrameRate,
		"file_size":   summary.FileSize,
		"codec":       summary.Codec,
		"decoder":     summary.Decoder,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) StageProgress(update StageProgress) {
	r.write(map[string]interface{}{
		"type":      "stage_progress",
		"stage":     update.Stage,
		"percent":   update.Percent,
		"message":   update.Message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) LayoutConfig(summary LayoutSummary) {
	r.write(map[string]interface{}{
		"type":      "layout_config",
		"grid":      summary.Grid,
		"frames":    summary.Frames,
		"canvas":    summary.Canvas,
		"cell":      summary.Cell,
		"preset":    summary.Preset,
		"format":    summary.Format,
		"quality":   summary.Quality,
		"watermark": summary.Watermark,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) SamplingStarted(totalFrames int) {
	r.mu.Lock()
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":         "sampling_started",
		"total_frames": totalFrames,
		"timestamp":    r.timestamp(),
	})
}

// SamplingProgress emits at most one event per second, plus the final frame.
func (r *JSONReporter) SamplingProgress(progress SamplingSnapshot) {
	const minInterval = time.Second

	now := time.Now()
	r.mu.Lock()
	shouldEmit := r.lastProgressTime.IsZero() ||
		now.Sub(r.lastProgressTime) >= minInterval ||
		progress.Current >= progress.Total
	if shouldEmit {
		r.lastProgressTime = now
	}
	r.mu.Unlock()

	if !shouldEmit {
		return
	}

	r.write(map[string]interface{}{
		"type":            "sampling_progress",
		"stage":           "sampling",
		"current_frame":   progress.Current,
		"total_frames":    progress.Total,
		"frame_timestamp": progress.Timestamp,
		"percent":         progress.Percent,
		"timestamp":       r.timestamp(),
	})
}

func (r *JSONReporter) ValidationComplete(summary ValidationSummary) {
	steps := make([]map[string]interface{}, len(summary.Steps))
	for i, step := range summary.Steps {
		steps[i] = map[string]interface{}{
			"step":    step.Name,
			"passed":  step.Passed,
			"details": step.Details,
		}
	}

	r.write(map[string]interface{}{
		"type":              "validation_complete",
		"validation_passed": summary.Passed,
		"validation_steps":  steps,
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) ThumbnailComplete(summary ThumbnailOutcome) {
	r.write(map[string]interface{}{
		"type":             "thumbnail_complete",
		"input_file":       summary.InputFile,
		"output_file":      summary.OutputFile,
		"output_path":      summary.OutputPath,
		"output_size":      summary.OutputSize,
		"width":            summary.Width,
		"height":           summary.Height,
		"frames":           summary.Frames,
		"duration_seconds": summary.TotalTime.Seconds(),
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]interface{}{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"output_dir":  info.OutputDir,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]interface{}{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	results := make([]map[string]interface{}, len(summary.FileResults))
	for i, fr := range summary.FileResults {
		results[i] = map[string]interface{}{
			"filename":    fr.Filename,
			"output_path": fr.OutputPath,
			"output_size": fr.OutputSize,
		}
	}

	r.write(map[string]interface{}{
		"type":                   "batch_complete",
		"successful_count":       summary.SuccessfulCount,
		"total_files":            summary.TotalFiles,
		"total_output_size":      summary.TotalOutputSize,
		"total_duration_seconds": summary.TotalDuration.Seconds(),
		"file_results":           results,
		"timestamp":              r.timestamp(),
	})
}

// Verbose messages go to the run log only; the event stream stays compact.
func (r *JSONReporter) Verbose(string) {}
