package processing

import (
	"context"
	"fmt"

	"github.com/five82/thumbr/internal/config"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/reporter"
	"github.com/five82/thumbr/internal/util"
)

// OutputPathFor returns where the sheet for inputPath is written. An explicit
// output path only applies when a single file is processed.
func OutputPathFor(cfg *config.Config, inputPath string, single bool) string {
	if single && cfg.OutputPath != "" {
		return cfg.OutputPath
	}
	return util.DefaultOutputPath(inputPath, cfg.OutputDir)
}

// ProcessVideos runs the pipeline for each file in order. The batch stops at
// the first failure; results for the files completed so far are returned
// with the error.
func ProcessVideos(
	ctx context.Context,
	cfg *config.Config,
	filesToProcess []string,
	rep reporter.Reporter,
	opts ...Option,
) ([]*Result, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	sysInfo := util.GetSystemInfo()
	rep.Hardware(reporter.HardwareSummary{
		Hostname: sysInfo.Hostname,
		CPUs:     sysInfo.NumCPU,
		OS:       fmt.Sprintf("%s/%s", sysInfo.OS, sysInfo.Arch),
	})

	single := len(filesToProcess) == 1
	if !single {
		fileNames := make([]string, 0, len(filesToProcess))
		for _, f := range filesToProcess {
			fileNames = append(fileNames, util.GetFilename(f))
		}
		rep.BatchStarted(reporter.BatchStartInfo{
			TotalFiles: len(filesToProcess),
			FileList:   fileNames,
			OutputDir:  cfg.OutputDir,
		})
	}

	var results []*Result
	for fileIdx, inputPath := range filesToProcess {
		if err := ctx.Err(); err != nil {
			return results, coreerr.NewCancelledError(err)
		}

		if !single {
			rep.FileProgress(reporter.FileProgressContext{
				CurrentFile: fileIdx + 1,
				TotalFiles:  len(filesToProcess),
			})
		}

		outputPath := OutputPathFor(cfg, inputPath, single)
		p := NewPipeline(cfg, rep, opts...)
		result, err := p.Run(ctx, inputPath, outputPath)
		if err != nil {
			rep.Error(ErrorReport(inputPath, err))
			return results, err
		}
		results = append(results, result)
	}

	if single {
		rep.OperationComplete(fmt.Sprintf("Contact sheet written for %s", results[0].Metadata.Filename))
		return results, nil
	}

	summary := reporter.BatchSummary{
		SuccessfulCount: len(results),
		TotalFiles:      len(filesToProcess),
	}
	for _, r := range results {
		summary.TotalDuration += r.Duration
		summary.TotalOutputSize += r.OutputSize
		summary.FileResults = append(summary.FileResults, reporter.FileResult{
			Filename:   util.GetFilename(r.InputPath),
			OutputPath: r.OutputPath,
			OutputSize: r.OutputSize,
		})
	}
	rep.BatchComplete(summary)

	return results, nil
}

// ErrorReport turns a pipeline error into a reporter event with a hint for
// the user.
func ErrorReport(inputPath string, err error) reporter.ReporterError {
	report := reporter.ReporterError{
		Title:   "Thumbnail generation failed",
		Message: err.Error(),
		Context: fmt.Sprintf("File: %s", inputPath),
	}

	kind, ok := coreerr.KindOf(err)
	if !ok {
		return report
	}
	report.Title = kind.String()

	switch kind {
	case coreerr.KindOpen:
		report.Suggestion = "Check that the file exists and is a video; install ffmpeg for formats other than MPEG-1"
	case coreerr.KindSample, coreerr.KindDecode:
		report.Suggestion = "Try a smaller grid or another decoder"
	case coreerr.KindLayout:
		report.Suggestion = "Increase --width/--height or reduce --padding and --spacing"
	case coreerr.KindUnsupportedFormat:
		report.Suggestion = "Use a .jpg, .jpeg or .png output path"
	case coreerr.KindWrite:
		report.Suggestion = "Check permissions and free space in the output directory"
	}
	return report
}
