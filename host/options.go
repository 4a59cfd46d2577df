// File: host/options.go
// Package host functional options.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package host

import "github.com/momentics/rtaudio-host/api"

// Option customizes host construction.
type Option func(*Host)

// WithDriver replaces the default synthetic driver with a caller-owned one.
func WithDriver(d api.Driver) Option {
	return func(h *Host) {
		h.driver = d
	}
}

// WithConfig replaces the full default configuration.
func WithConfig(cfg Config) Option {
	return func(h *Host) {
		h.cfg = cfg
	}
}

// WithPreferredBufferSize sets the render buffer size in frames.
func WithPreferredBufferSize(frames int) Option {
	return func(h *Host) {
		h.cfg.PreferredBufferSize = frames
	}
}

// WithNumWorkerThreads sets the render worker thread count.
func WithNumWorkerThreads(n int) Option {
	return func(h *Host) {
		h.cfg.NumWorkerThreads = n
	}
}

// WithNumBusyThreads sets the background busy thread count.
func WithNumBusyThreads(n int) Option {
	return func(h *Host) {
		h.cfg.NumBusyThreads = n
	}
}

// WithProcessInDriverThread toggles driver-thread processing.
func WithProcessInDriverThread(on bool) Option {
	return func(h *Host) {
		h.cfg.ProcessInDriverThread = on
	}
}

// WithWorkInterval toggles deadline-class enrollment of the callback thread.
func WithWorkInterval(on bool) Option {
	return func(h *Host) {
		h.cfg.WorkIntervalOn = on
	}
}

// WithMinimumLoad sets the per-buffer CPU load floor, in [0,1].
func WithMinimumLoad(load float64) Option {
	return func(h *Host) {
		h.cfg.MinimumLoad = load
	}
}

// WithPinnedWorkers pins worker threads to CPUs by index.
func WithPinnedWorkers(on bool) Option {
	return func(h *Host) {
		h.cfg.PinWorkers = on
	}
}

// WithTraceCapacity sizes the cycle trace ring.
func WithTraceCapacity(n int) Option {
	return func(h *Host) {
		h.cfg.TraceCapacity = n
	}
}
