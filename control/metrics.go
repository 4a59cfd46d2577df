// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Render-cycle metrics collector. All recording uses atomics; Snapshot
// copies the counters into a plain map for export.

package control

import (
	"sync/atomic"
	"time"
)

// Metrics accumulates per-cycle counters for one host instance.
type Metrics struct {
	hostID string

	cycles         atomic.Uint64
	failures       atomic.Uint64
	deadlineMisses atomic.Uint64
	lastCycleNanos atomic.Int64
	maxCycleNanos  atomic.Int64
}

// NewMetrics creates a metrics collector tagged with the owning host ID.
func NewMetrics(hostID string) *Metrics {
	return &Metrics{hostID: hostID}
}

// RecordCycle accounts one render cycle of the given duration against its
// real-time deadline (the buffer period).
func (m *Metrics) RecordCycle(elapsed, deadline time.Duration, failed bool) {
	m.cycles.Add(1)
	if failed {
		m.failures.Add(1)
	}
	if deadline > 0 && elapsed > deadline {
		m.deadlineMisses.Add(1)
	}
	nanos := elapsed.Nanoseconds()
	m.lastCycleNanos.Store(nanos)
	for {
		max := m.maxCycleNanos.Load()
		if nanos <= max || m.maxCycleNanos.CompareAndSwap(max, nanos) {
			return
		}
	}
}

// Cycles returns the number of recorded cycles.
func (m *Metrics) Cycles() uint64 { return m.cycles.Load() }

// Failures returns the number of failed cycles.
func (m *Metrics) Failures() uint64 { return m.failures.Load() }

// DeadlineMisses returns the number of cycles that overran their buffer period.
func (m *Metrics) DeadlineMisses() uint64 { return m.deadlineMisses.Load() }

// LastCycle returns the duration of the most recent cycle.
func (m *Metrics) LastCycle() time.Duration {
	return time.Duration(m.lastCycleNanos.Load())
}

// MaxCycle returns the longest recorded cycle duration.
func (m *Metrics) MaxCycle() time.Duration {
	return time.Duration(m.maxCycleNanos.Load())
}

// Snapshot returns the latest counters as an export map.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"host_id":          m.hostID,
		"cycles":           m.cycles.Load(),
		"failures":         m.failures.Load(),
		"deadline_misses":  m.deadlineMisses.Load(),
		"last_cycle_nanos": m.lastCycleNanos.Load(),
		"max_cycle_nanos":  m.maxCycleNanos.Load(),
	}
}
