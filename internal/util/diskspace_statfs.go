//go:build linux || darwin

package util

import "golang.org/x/sys/unix"

// AvailableSpace returns the bytes available to unprivileged users on the
// filesystem containing path. Returns 0 if it cannot be determined.
func AvailableSpace(path string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize)
}
