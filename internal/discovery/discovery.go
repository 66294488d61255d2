// Package discovery finds the video files to process in batch mode.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	coreerr "github.com/five82/thumbr/internal/errors"
	"github.com/five82/thumbr/internal/logging"
	"github.com/five82/thumbr/internal/util"
)

// maxLoggedFiles caps how many discovered names are written to the log.
const maxLoggedFiles = 5

// Result contains the results of file discovery with metadata.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindVideoFiles finds video files directly inside inputDir. Hidden files
// and subdirectories are skipped. Files are sorted case-insensitively by
// name.
func FindVideoFiles(inputDir string) (*Result, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, coreerr.NewOpenError(inputDir, "directory does not exist", err)
	}
	if !info.IsDir() {
		return nil, coreerr.NewOpenError(inputDir, "not a directory", nil)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, coreerr.NewOpenError(inputDir, fmt.Sprintf("cannot read directory %s", inputDir), err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) {
			result.Files = append(result.Files, fullPath)
		} else {
			result.SkippedCount++
		}
	}

	if len(result.Files) == 0 {
		return nil, coreerr.NewNoFilesFoundError(inputDir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(result.Files[i])) < strings.ToLower(filepath.Base(result.Files[j]))
	})

	logDiscoveredFiles(inputDir, result)
	return result, nil
}

func logDiscoveredFiles(dir string, result *Result) {
	logging.Info("discovered video files", "dir", dir, "count", len(result.Files), "skipped", result.SkippedCount)

	for _, f := range result.Files[:min(maxLoggedFiles, len(result.Files))] {
		logging.Debug("discovered", "file", filepath.Base(f))
	}
	if len(result.Files) > maxLoggedFiles {
		logging.Debug("discovered more files", "remaining", len(result.Files)-maxLoggedFiles)
	}
}
