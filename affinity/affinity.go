// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations
// live in separate files (affinity_linux.go, affinity_windows.go, etc.)
// guarded by build tags.

package affinity

// SetAffinity pins the calling OS thread to a given logical CPU/core on
// supported platforms. The caller must hold runtime.LockOSThread, otherwise
// the Go scheduler may migrate the goroutine off the pinned thread.
// On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}
