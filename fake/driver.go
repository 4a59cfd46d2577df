// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package fake provides test doubles for the driver boundary.
package fake

import (
	"github.com/momentics/rtaudio-host/api"
)

// Driver is a manually clocked api.Driver: tests invoke RunCycle to deliver
// render callbacks synchronously, cycle by cycle. Not safe for concurrent
// use; drive it from one goroutine.
type Driver struct {
	cb           api.RenderCallback
	sampleRate   float64
	bufferSize   int
	workInterval bool
	running      bool

	buf      *api.StereoBuffer
	hostTime uint64

	// CycleErrors collects the per-cycle statuses returned by the callback.
	CycleErrors []error
	// StartCalls and StopCalls count effective lifecycle transitions.
	StartCalls int
	StopCalls  int
}

var _ api.Driver = (*Driver)(nil)

// NewDriver creates a stopped manual driver.
func NewDriver(sampleRate float64, bufferSize int) *Driver {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if bufferSize <= 0 {
		bufferSize = 512
	}
	return &Driver{sampleRate: sampleRate, bufferSize: bufferSize}
}

// SetCallback registers the single render-entry owner.
func (d *Driver) SetCallback(cb api.RenderCallback) error {
	if d.cb != nil {
		return api.ErrCallbackOwned
	}
	d.cb = cb
	return nil
}

// PreferredBufferSize reports the last applied buffer size.
func (d *Driver) PreferredBufferSize() int { return d.bufferSize }

// SetPreferredBufferSize applies a new buffer size while stopped.
func (d *Driver) SetPreferredBufferSize(frames int) error {
	if d.running {
		return api.ErrDriverRunning
	}
	if frames <= 0 {
		return api.ErrInvalidConfig
	}
	d.bufferSize = frames
	return nil
}

// SampleRate reports the configured sample rate.
func (d *Driver) SampleRate() float64 { return d.sampleRate }

// SetWorkIntervalOn records the flag; the fake has no scheduler to enroll in.
func (d *Driver) SetWorkIntervalOn(on bool) { d.workInterval = on }

// WorkIntervalOn reports the last forwarded flag.
func (d *Driver) WorkIntervalOn() bool { return d.workInterval }

// Start marks the driver running. Callbacks fire only via RunCycle.
func (d *Driver) Start() error {
	if d.cb == nil {
		return api.ErrInvalidConfig
	}
	if d.running {
		return api.ErrAlreadyStarted
	}
	d.running = true
	d.StartCalls++
	d.buf = api.NewStereoBuffer(d.bufferSize)
	return nil
}

// Stop marks the driver stopped. Idempotent.
func (d *Driver) Stop() error {
	if !d.running {
		return nil
	}
	d.running = false
	d.StopCalls++
	return nil
}

// Running reports the current run state.
func (d *Driver) Running() bool { return d.running }

// RunCycle delivers one render callback with numFrames, returning the
// cycle status the callback produced.
func (d *Driver) RunCycle(numFrames int) error {
	if !d.running {
		return api.ErrNotStarted
	}
	if numFrames <= 0 || numFrames > d.bufferSize {
		numFrames = d.bufferSize
	}
	d.hostTime += uint64(float64(numFrames) / d.sampleRate * 1e9)
	err := d.cb(numFrames, d.hostTime, d.buf)
	d.CycleErrors = append(d.CycleErrors, err)
	return err
}

// RunCycles delivers n full-buffer cycles, returning the first failure.
func (d *Driver) RunCycles(n int) error {
	for i := 0; i < n; i++ {
		if err := d.RunCycle(d.bufferSize); err != nil {
			return err
		}
	}
	return nil
}
