// Package main provides the CLI entry point for thumbr.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/thumbr/internal/config"
	"github.com/five82/thumbr/internal/discovery"
	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/logging"
	"github.com/five82/thumbr/internal/processing"
	"github.com/five82/thumbr/internal/reporter"
)

const (
	appName    = "thumbr"
	appVersion = "0.1.0"
)

// reportedError marks an error the reporter has already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Video thumbnail grid generator",
		Long:          "thumbr samples frames evenly across a video and lays them out as a labeled contact sheet.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}}\n", appName))
	root.AddCommand(newGenerateCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
}

// generateArgs holds the parsed arguments for the generate command.
type generateArgs struct {
	inputPath  string
	outputPath string
	logDir     string
	verbose    bool
	noLog      bool
	jsonOutput bool
	stylePath  string
	preset     string

	grid             string
	width            int
	height           int
	padding          int
	spacing          int
	quality          int
	fontPath         string
	watermark        string
	watermarkImage   string
	watermarkOpacity float64
	noWatermark      bool
	decoder          string
	maxDecodeWidth   int
}

func newGenerateCommand() *cobra.Command {
	var ga generateArgs

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a thumbnail grid for a video file or directory",
		Example: `  thumbr generate -i movie.mkv
  thumbr generate -i movie.mkv -o sheets/movie.png -g 4x5 --preset detailed
  thumbr generate -i ~/Videos -o ~/Sheets --style style.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeGenerate(cmd, ga)
		},
	}

	bindGenerateFlags(cmd, &ga)
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func bindGenerateFlags(cmd *cobra.Command, ga *generateArgs) {
	f := cmd.Flags()
	f.SortFlags = false

	// Required arguments
	f.StringVarP(&ga.inputPath, "input", "i", "", "Input video file or directory containing video files")
	f.StringVarP(&ga.outputPath, "output", "o", "", "Output image (.jpg/.png) or directory. Default: <input dir>/<name>_thumbnail.jpg")

	// Layout
	f.StringVarP(&ga.grid, "grid", "g", config.DefaultGrid, "Grid as ROWSxCOLUMNS")
	f.StringVar(&ga.preset, "preset", "", "Layout preset (compact, standard, detailed)")
	f.StringVar(&ga.stylePath, "style", "", "YAML style file with layout and watermark settings")
	f.IntVar(&ga.width, "width", config.DefaultCanvasWidth, "Canvas width in pixels")
	f.IntVar(&ga.height, "height", 0, "Canvas height in pixels (0 derives it from the video aspect ratio)")
	f.IntVar(&ga.padding, "padding", config.DefaultPadding, "Margin around the sheet in pixels")
	f.IntVar(&ga.spacing, "spacing", config.DefaultSpacing, "Gap between thumbnails in pixels")
	f.IntVar(&ga.quality, "quality", config.DefaultJPEGQuality, "JPEG quality (1-100)")

	// Annotation
	f.StringVar(&ga.fontPath, "font", "", "TrueType/OpenType font file (defaults to the embedded Go font)")
	f.StringVar(&ga.watermark, "watermark", config.DefaultWatermark, "Watermark text drawn in the footer")
	f.StringVar(&ga.watermarkImage, "watermark-image", "", "PNG/JPEG image drawn in the footer")
	f.Float64Var(&ga.watermarkOpacity, "watermark-opacity", config.DefaultWatermarkOpacity, "Watermark opacity (0-1)")
	f.BoolVar(&ga.noWatermark, "no-watermark", false, "Disable the watermark and its footer band")

	// Decoding
	f.StringVar(&ga.decoder, "decoder", string(config.DecoderAuto), "Decoder backend (auto, ffmpeg, native)")
	f.IntVar(&ga.maxDecodeWidth, "max-decode-width", config.DefaultMaxDecodeWidth, "Downscale decoded frames wider than this (0 disables)")

	// Output options
	f.StringVarP(&ga.logDir, "log-dir", "l", "", "Log directory (defaults to OUTPUT/logs)")
	f.BoolVarP(&ga.verbose, "verbose", "v", false, "Enable verbose output for troubleshooting")
	f.BoolVar(&ga.noLog, "no-log", false, "Disable log file creation")
	f.BoolVar(&ga.jsonOutput, "json", false, "Emit NDJSON progress events instead of terminal output")
}

func executeGenerate(cmd *cobra.Command, ga generateArgs) error {
	inputPath, err := filepath.Abs(ga.inputPath)
	if err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}

	inputInfo, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return coreerr.NewOpenError(inputPath, "file not found", err)
		}
		return coreerr.NewOpenError(inputPath, "cannot access file", err)
	}

	outputPath, outputDir, err := resolveOutput(inputPath, ga.outputPath, inputInfo.IsDir())
	if err != nil {
		return err
	}

	logDir := ga.logDir
	if logDir == "" {
		logDir = filepath.Join(logBaseDir(inputPath, outputPath, outputDir, inputInfo.IsDir()), "logs")
	}

	cfg, err := buildConfig(cmd, ga, inputPath, outputPath, logDir)
	if err != nil {
		return err
	}
	cfg.OutputDir = outputDir

	runLog, err := logging.Setup(logDir, ga.verbose, ga.noLog)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() { _ = runLog.Close() }()

	var filesToProcess []string
	if inputInfo.IsDir() {
		found, err := discovery.FindVideoFiles(inputPath)
		if err != nil {
			return err
		}
		filesToProcess = found.Files
	} else {
		filesToProcess = []string{inputPath}
		logging.Info("processing single file", "path", inputPath)
	}

	logConfig(cfg)

	var rep reporter.Reporter
	if ga.jsonOutput {
		rep = reporter.NewJSONReporter()
	} else {
		rep = reporter.NewTerminalReporter(ga.verbose)
	}
	if path := runLog.FilePath(); path != "" {
		rep.Verbose(fmt.Sprintf("Logging to %s", path))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logging.Warn("interrupted, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := processing.ProcessVideos(ctx, cfg, filesToProcess, rep); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// buildConfig applies defaults, then the preset, then the style file, then
// every flag the user set explicitly.
func buildConfig(cmd *cobra.Command, ga generateArgs, inputPath, outputPath, logDir string) (*config.Config, error) {
	cfg := config.NewConfig(inputPath, outputPath, logDir)
	flags := cmd.Flags()

	if ga.preset != "" {
		preset, err := config.ParsePreset(ga.preset)
		if err != nil {
			return nil, coreerr.NewConfigError("invalid --preset", err)
		}
		cfg.ApplyPreset(preset)
	}

	if ga.stylePath != "" {
		style, err := config.LoadStyle(ga.stylePath)
		if err != nil {
			return nil, coreerr.NewConfigError("cannot load style file "+ga.stylePath, err)
		}
		if err := cfg.ApplyStyle(style); err != nil {
			return nil, coreerr.NewConfigError("invalid style file "+ga.stylePath, err)
		}
	}

	if flags.Changed("grid") {
		grid, err := config.ParseGrid(ga.grid)
		if err != nil {
			return nil, coreerr.NewConfigError("invalid --grid", err)
		}
		cfg.Grid = grid
	}
	if flags.Changed("width") {
		cfg.Width = ga.width
	}
	if flags.Changed("height") {
		cfg.Height = ga.height
	}
	if flags.Changed("padding") {
		cfg.Padding = ga.padding
	}
	if flags.Changed("spacing") {
		cfg.Spacing = ga.spacing
	}
	if flags.Changed("quality") {
		cfg.JPEGQuality = ga.quality
	}
	if flags.Changed("font") {
		cfg.FontPath = ga.fontPath
	}
	if flags.Changed("watermark") {
		cfg.Watermark = ga.watermark
	}
	if flags.Changed("watermark-image") {
		cfg.WatermarkImage = ga.watermarkImage
	}
	if flags.Changed("watermark-opacity") {
		cfg.WatermarkOpacity = ga.watermarkOpacity
	}
	if flags.Changed("no-watermark") {
		cfg.DisableWatermark = ga.noWatermark
	}
	if flags.Changed("decoder") {
		decoder, err := config.ParseDecoder(ga.decoder)
		if err != nil {
			return nil, coreerr.NewConfigError("invalid --decoder", err)
		}
		cfg.Decoder = decoder
	}
	if flags.Changed("max-decode-width") {
		cfg.MaxDecodeWidth = ga.maxDecodeWidth
	}

	if err := cfg.Validate(); err != nil {
		return nil, coreerr.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// resolveOutput splits -o into an output file (single input) or an output
// directory (batch, or a single input with an extensionless -o).
func resolveOutput(inputPath, output string, isInputDir bool) (outputPath, outputDir string, err error) {
	if output == "" {
		return "", "", nil
	}

	output, err = filepath.Abs(output)
	if err != nil {
		return "", "", fmt.Errorf("invalid output path: %w", err)
	}

	if isInputDir {
		return "", output, nil
	}

	if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
		return "", output, nil
	}
	if filepath.Ext(output) == "" {
		return "", output, nil
	}
	return output, "", nil
}

func logBaseDir(inputPath, outputPath, outputDir string, isInputDir bool) string {
	switch {
	case outputDir != "":
		return outputDir
	case outputPath != "":
		return filepath.Dir(outputPath)
	case isInputDir:
		return inputPath
	default:
		return filepath.Dir(inputPath)
	}
}

func logConfig(cfg *config.Config) {
	preset := "none"
	if cfg.LayoutPreset != nil {
		preset = cfg.LayoutPreset.String()
	}
	logging.Info("configuration",
		"grid", cfg.Grid.String(),
		"width", cfg.Width,
		"height", cfg.Height,
		"padding", cfg.Padding,
		"spacing", cfg.Spacing,
		"quality", cfg.JPEGQuality,
		"preset", preset,
		"decoder", string(cfg.Decoder),
		"watermark", cfg.WatermarkEnabled(),
	)
}
