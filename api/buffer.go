// File: api/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// StereoBuffer is one non-interleaved stereo output buffer. Both channels
// have equal length. During a render callback the buffer is exclusively
// caller-owned; the host never retains it across cycles.
type StereoBuffer struct {
	Left  []float32
	Right []float32
}

// NewStereoBuffer allocates a zeroed stereo buffer of numFrames per channel.
func NewStereoBuffer(numFrames int) *StereoBuffer {
	return &StereoBuffer{
		Left:  make([]float32, numFrames),
		Right: make([]float32, numFrames),
	}
}

// Frames returns the per-channel capacity of the buffer.
func (b *StereoBuffer) Frames() int {
	return len(b.Left)
}

// Zero clears the first numFrames of both channels.
func (b *StereoBuffer) Zero(numFrames int) {
	for i := 0; i < numFrames && i < len(b.Left); i++ {
		b.Left[i] = 0
		b.Right[i] = 0
	}
}
