package util

import (
	"os"
	"runtime"
)

// SystemInfo contains information about the host system.
type SystemInfo struct {
	Hostname string
	NumCPU   int
	OS       string
	Arch     string
}

// GetSystemInfo collects system information.
func GetSystemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{
		Hostname: hostname,
		NumCPU:   runtime.NumCPU(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
}

// HasEnoughSpace reports whether the filesystem holding path has at least
// need bytes available. Unknown free space (0) is treated as enough.
func HasEnoughSpace(path string, need uint64) bool {
	available := AvailableSpace(path)
	if available == 0 {
		return true
	}
	return available >= need
}
