package thumbr

import (
	"time"

	"github.com/five82/thumbr/internal/reporter"
)

// EventType identifies an Event.
type EventType string

const (
	EventTypeStageProgress      EventType = "stage_progress"
	EventTypeSamplingProgress   EventType = "sampling_progress"
	EventTypeValidationComplete EventType = "validation_complete"
	EventTypeThumbnailComplete  EventType = "thumbnail_complete"
	EventTypeWarning            EventType = "warning"
	EventTypeError              EventType = "error"
	EventTypeBatchComplete      EventType = "batch_complete"
)

// Event is a progress notification passed to an EventHandler.
type Event interface {
	Type() EventType
	Timestamp() int64
}

// EventHandler receives events. Its return value is ignored; generation is
// never interrupted by a handler. Cancel the context instead.
type EventHandler func(Event) error

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      int64     `json:"timestamp"`
}

func (e BaseEvent) Type() EventType  { return e.EventType }
func (e BaseEvent) Timestamp() int64 { return e.Time }

// NewTimestamp returns the current Unix time in seconds.
func NewTimestamp() int64 {
	return time.Now().Unix()
}

// StageProgressEvent marks the start of a pipeline stage.
type StageProgressEvent struct {
	BaseEvent
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// SamplingProgressEvent is sent after each decoded frame.
type SamplingProgressEvent struct {
	BaseEvent
	CurrentFrame   int     `json:"current_frame"`
	TotalFrames    int     `json:"total_frames"`
	FrameTimestamp string  `json:"frame_timestamp"`
	Percent        float32 `json:"percent"`
}

// ValidationStep is one output check.
type ValidationStep struct {
	Step    string `json:"step"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// ValidationCompleteEvent reports the checks run on the written file.
type ValidationCompleteEvent struct {
	BaseEvent
	ValidationPassed bool             `json:"validation_passed"`
	ValidationSteps  []ValidationStep `json:"validation_steps"`
}

// ThumbnailCompleteEvent reports a written contact sheet.
type ThumbnailCompleteEvent struct {
	BaseEvent
	InputFile  string `json:"input_file"`
	OutputFile string `json:"output_file"`
	OutputSize uint64 `json:"output_size"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// WarningEvent reports a non-fatal problem such as a missing font.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent reports the failure that stopped a run.
type ErrorEvent struct {
	BaseEvent
	Title      string `json:"title"`
	Message    string `json:"message"`
	Context    string `json:"context"`
	Suggestion string `json:"suggestion"`
}

// BatchCompleteEvent summarises a batch run.
type BatchCompleteEvent struct {
	BaseEvent
	SuccessfulCount int    `json:"successful_count"`
	TotalFiles      int    `json:"total_files"`
	TotalOutputSize uint64 `json:"total_output_size"`
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	reporter.NullReporter
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) base(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: NewTimestamp()}
}

func (r *eventReporter) StageProgress(u reporter.StageProgress) {
	_ = r.handler(StageProgressEvent{
		BaseEvent: r.base(EventTypeStageProgress),
		Stage:     u.Stage,
		Message:   u.Message,
	})
}

func (r *eventReporter) SamplingProgress(p reporter.SamplingSnapshot) {
	_ = r.handler(SamplingProgressEvent{
		BaseEvent:      r.base(EventTypeSamplingProgress),
		CurrentFrame:   p.Current,
		TotalFrames:    p.Total,
		FrameTimestamp: p.Timestamp,
		Percent:        p.Percent,
	})
}

func (r *eventReporter) ValidationComplete(s reporter.ValidationSummary) {
	steps := make([]ValidationStep, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = ValidationStep{
			Step:    step.Name,
			Passed:  step.Passed,
			Details: step.Details,
		}
	}
	_ = r.handler(ValidationCompleteEvent{
		BaseEvent:        r.base(EventTypeValidationComplete),
		ValidationPassed: s.Passed,
		ValidationSteps:  steps,
	})
}

func (r *eventReporter) ThumbnailComplete(s reporter.ThumbnailOutcome) {
	_ = r.handler(ThumbnailCompleteEvent{
		BaseEvent:  r.base(EventTypeThumbnailComplete),
		InputFile:  s.InputFile,
		OutputFile: s.OutputPath,
		OutputSize: s.OutputSize,
		Width:      s.Width,
		Height:     s.Height,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: r.base(EventTypeWarning),
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  r.base(EventTypeError),
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) BatchComplete(s reporter.BatchSummary) {
	_ = r.handler(BatchCompleteEvent{
		BaseEvent:       r.base(EventTypeBatchComplete),
		SuccessfulCount: s.SuccessfulCount,
		TotalFiles:      s.TotalFiles,
		TotalOutputSize: s.TotalOutputSize,
	})
}
