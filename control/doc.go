// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime observability for the audio host: per-cycle render metrics and a
// bounded trace ring of recent cycles for jitter inspection.
//
// The metrics path is atomics-only so it can run inside the real-time
// render callback. The trace ring takes a short mutex per push and is
// therefore optional; hosts enable it only while measuring.
package control
