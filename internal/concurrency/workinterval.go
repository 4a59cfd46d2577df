//go:build !linux
// +build !linux

// File: internal/concurrency/workinterval.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without a deadline-aware scheduling class reachable
// from pure Go. Enrollment reports unsupported; callers treat that as a
// degraded but working configuration.

package concurrency

import (
	"time"

	"github.com/momentics/rtaudio-host/api"
)

// EnterWorkInterval enrolls the calling OS thread into a deadline-aware
// scheduling class for a periodic workload of the given period and
// per-period computation budget. The caller must be locked to its thread.
func EnterWorkInterval(period, computation time.Duration) error {
	return api.ErrNotSupported
}

// LeaveWorkInterval returns the calling thread to the default scheduling
// class.
func LeaveWorkInterval() error {
	return api.ErrNotSupported
}
