// File: api/driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Boundary to the audio backend that owns the hardware (or synthetic) audio
// unit. Format negotiation and the raw callback entry point live behind this
// interface; the host only sequences work inside the callback it registers.

package api

// Driver abstracts the audio backend driving render cycles.
//
// A driver accepts exactly one callback owner: SetCallback fails with
// ErrCallbackOwned once a callback is registered. Start begins delivering
// render callbacks; Stop returns only when no callback remains in flight
// and no further callback will be delivered.
type Driver interface {
	// SetCallback registers the single render-entry owner. Must be called
	// before Start and at most once per owner.
	SetCallback(cb RenderCallback) error

	// PreferredBufferSize reports the last applied buffer size in frames.
	PreferredBufferSize() int

	// SetPreferredBufferSize applies a new buffer size. Only permitted while
	// the driver is stopped.
	SetPreferredBufferSize(frames int) error

	// SampleRate reports the stream sample rate in Hz.
	SampleRate() float64

	// SetWorkIntervalOn toggles enrollment of the callback thread into the
	// platform's deadline-aware scheduling class. Stored and applied at the
	// next Start; the host forwards the flag unchanged.
	SetWorkIntervalOn(on bool)

	Start() error
	Stop() error
}
