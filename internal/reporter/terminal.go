package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/five82/thumbr/internal/util"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	out        io.Writer
	errOut     io.Writer
	verbose    bool
	progress   *progressbar.ProgressBar
	maxPercent float32
	lastStage  string
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
	faint      *color.Color
}

// NewTerminalReporter creates a new terminal reporter writing to stdout and
// stderr.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return NewTerminalReporterWithWriters(os.Stdout, os.Stderr, verbose)
}

// NewTerminalReporterWithWriters creates a terminal reporter with custom
// writers.
func NewTerminalReporterWithWriters(out, errOut io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		faint:   color.New(color.Faint),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) section(title string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, title)
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) Hardware(summary HardwareSummary) {
	r.section("HARDWARE")
	r.printLabel(10, "Hostname:", summary.Hostname)
	r.printLabel(10, "CPUs:", fmt.Sprintf("%d", summary.CPUs))
	r.printLabel(10, "OS:", summary.OS)
}

func (r *TerminalReporter) Initialization(summary InitializationSummary) {
	r.section("VIDEO")
	const w = 11
	r.printLabel(w, "File:", summary.InputFile)
	r.printLabel(w, "Output:", summary.OutputFile)
	r.printLabel(w, "Duration:", summary.Duration)
	r.printLabel(w, "Resolution:", summary.Resolution)
	r.printLabel(w, "Frame rate:", summary.FrameRate)
	r.printLabel(w, "Size:", summary.FileSize)
	if summary.Codec != "" {
		r.printLabel(w, "Codec:", summary.Codec)
	}
	r.printLabel(w, "Decoder:", summary.Decoder)
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	newStage := r.lastStage != update.Stage
	r.lastStage = update.Stage
	r.mu.Unlock()

	if newStage {
		r.section(strings.ToUpper(update.Stage))
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) LayoutConfig(summary LayoutSummary) {
	r.section("LAYOUT")
	const w = 10
	r.printLabel(w, "Grid:", fmt.Sprintf("%s (%d frames)", summary.Grid, summary.Frames))
	r.printLabel(w, "Canvas:", summary.Canvas)
	r.printLabel(w, "Cell:", summary.Cell)
	if summary.Preset != "" {
		r.printLabel(w, "Preset:", summary.Preset)
	}
	if summary.Format == "jpeg" {
		r.printLabel(w, "Format:", fmt.Sprintf("%s (quality %d)", summary.Format, summary.Quality))
	} else {
		r.printLabel(w, "Format:", summary.Format)
	}
	if summary.Watermark != "" {
		r.printLabel(w, "Watermark:", summary.Watermark)
	} else {
		r.printLabel(w, "Watermark:", r.faint.Sprint("disabled"))
	}
}

func (r *TerminalReporter) SamplingStarted(totalFrames int) {
	r.finishProgress()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions64(
		int64(totalFrames),
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Sampling [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) SamplingProgress(progress SamplingSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	// Frames arrive in order; never move the bar backwards.
	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set(progress.Current)
	}
	r.progress.Describe(fmt.Sprintf("frame at %s", progress.Timestamp))
}

func (r *TerminalReporter) ValidationComplete(summary ValidationSummary) {
	r.finishProgress()
	r.section("VALIDATION")

	if summary.Passed {
		_, _ = fmt.Fprintf(r.out, "  %s\n", color.New(color.FgGreen, color.Bold).Sprint("All checks passed"))
	} else {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.red.Sprint("Validation failed"))
	}

	maxLen := 0
	for _, step := range summary.Steps {
		maxLen = max(maxLen, len(step.Name))
	}

	for _, step := range summary.Steps {
		status := r.green.Sprint("✓")
		if !step.Passed {
			status = r.red.Sprint("✗")
		}
		paddedName := fmt.Sprintf("%-*s", maxLen, step.Name)
		_, _ = fmt.Fprintf(r.out, "  - %s: %s (%s)\n", paddedName, status, step.Details)
	}
}

func (r *TerminalReporter) ThumbnailComplete(summary ThumbnailOutcome) {
	r.finishProgress()
	r.section("RESULTS")
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint("Output:"), r.bold.Sprint(summary.OutputFile))
	r.printLabel(7, "Image:", fmt.Sprintf("%s, %d frames", util.FormatResolution(summary.Width, summary.Height), summary.Frames))
	r.printLabel(7, "Size:", util.FormatBytes(summary.OutputSize))
	r.printLabel(7, "Time:", util.FormatDuration(summary.TotalTime.Seconds()))
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint("Saved to"), r.green.Sprint(summary.OutputPath))
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()
	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.section("BATCH")
	target := info.OutputDir
	if target == "" {
		target = "alongside inputs"
	}
	_, _ = fmt.Fprintf(r.out, "  Processing %d files -> %s\n", info.TotalFiles, r.bold.Sprint(target))
	for i, name := range info.FileList {
		_, _ = fmt.Fprintf(r.out, "  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	_, _ = fmt.Fprintf(r.out, "\nFile %s of %d\n", r.bold.Sprint(context.CurrentFile), context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.section("BATCH SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalFiles))
	_, _ = fmt.Fprintf(r.out, "  Size: %s\n", util.FormatBytes(summary.TotalOutputSize))
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))

	for _, result := range summary.FileResults {
		_, _ = fmt.Fprintf(r.out, "  - %s -> %s (%s)\n", result.Filename, result.OutputPath, util.FormatBytes(result.OutputSize))
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	_, _ = r.faint.Fprintf(r.out, "  %s\n", message)
}
