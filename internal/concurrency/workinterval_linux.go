//go:build linux
// +build linux

// File: internal/concurrency/workinterval_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux work-interval enrollment via sched_setattr(2). SCHED_DEADLINE is
// the real deadline-aware class; when the kernel or rlimits refuse it,
// SCHED_FIFO at a high static priority is the closest available substitute.

package concurrency

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// fifoFallbackPriority is used when SCHED_DEADLINE admission fails.
// 60 leaves headroom below kernel threads pinned at the top of the range.
const fifoFallbackPriority = 60

// EnterWorkInterval enrolls the calling OS thread into a deadline-aware
// scheduling class for a periodic workload of the given period and
// per-period computation budget. The caller must be locked to its thread.
func EnterWorkInterval(period, computation time.Duration) error {
	if period <= 0 || computation <= 0 || computation > period {
		return fmt.Errorf("work interval: invalid period %v / computation %v", period, computation)
	}
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_DEADLINE,
		Runtime:  uint64(computation),
		Deadline: uint64(period),
		Period:   uint64(period),
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err == nil {
		return nil
	}
	fifo := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: fifoFallbackPriority,
	}
	if err := unix.SchedSetAttr(0, &fifo, 0); err != nil {
		return fmt.Errorf("work interval: sched_setattr: %w", err)
	}
	return nil
}

// LeaveWorkInterval returns the calling thread to the default scheduling
// class.
func LeaveWorkInterval() error {
	attr := unix.SchedAttr{
		Size:   unix.SizeofSchedAttr,
		Policy: unix.SCHED_NORMAL,
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		return fmt.Errorf("work interval: sched_setattr: %w", err)
	}
	return nil
}
