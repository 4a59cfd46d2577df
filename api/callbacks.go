// File: api/callbacks.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Callback types invoked by the host around and inside each render cycle.

package api

// Setup is invoked exactly once per Start(), after worker pool sizing and
// before the first render cycle. numWorkerThreads is the size of the pool
// actually created.
type Setup func(numWorkerThreads int)

// RenderStarted is invoked at the beginning of every render cycle, on the
// real-time driver thread.
type RenderStarted func(numFrames int)

// Process performs one partition of a cycle's work. It is invoked once per
// active worker per cycle with threadIndex in [0, numWorkerThreads), or once
// with threadIndex 0 on the driver thread when driver-thread processing is
// enabled. Partitioning the buffer by threadIndex is the callee's
// responsibility; the host guarantees index uniqueness per cycle only.
type Process func(threadIndex, numFrames int)

// RenderEnded is invoked at the end of a successful cycle, on the real-time
// driver thread, strictly after every Process call of that cycle returned.
// out is owned by the driver and valid only for the duration of the call.
type RenderEnded func(out *StereoBuffer, hostTime uint64, numFrames int)

// RenderCallback is the render-entry capability a driver invokes once per
// buffer. A non-nil error marks the cycle failed; the driver drops the
// buffer and keeps running.
type RenderCallback func(numFrames int, hostTime uint64, out *StereoBuffer) error
