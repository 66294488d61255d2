//go:build !linux && !darwin

package util

// AvailableSpace is not implemented on this platform and always returns 0.
func AvailableSpace(string) uint64 {
	return 0
}
