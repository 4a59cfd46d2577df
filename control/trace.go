// File: control/trace.go
// Author: momentics <momentics@gmail.com>
//
// Bounded ring of recent render-cycle traces, backed by a FIFO queue.
// Pushing takes a short mutex, so hosts attach a ring only when measuring
// jitter rather than in steady production use.

package control

import (
	"sync"

	"github.com/eapache/queue"
)

// DefaultTraceCapacity bounds the ring when the host does not override it.
const DefaultTraceCapacity = 1024

// CycleTrace is one recorded render cycle.
type CycleTrace struct {
	Seq       uint64
	HostTime  uint64
	NumFrames int
	Duration  int64 // nanoseconds
	Deadline  int64 // nanoseconds, the buffer period
	Workers   int
	Failed    bool
}

// TraceRing keeps the most recent capacity traces, dropping the oldest.
type TraceRing struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
	seq      uint64
}

// NewTraceRing creates a ring holding at most capacity traces.
func NewTraceRing(capacity int) *TraceRing {
	if capacity <= 0 {
		capacity = DefaultTraceCapacity
	}
	return &TraceRing{
		q:        queue.New(),
		capacity: capacity,
	}
}

// Push records one cycle trace, assigning it the next sequence number.
func (r *TraceRing) Push(t CycleTrace) {
	r.mu.Lock()
	r.seq++
	t.Seq = r.seq
	if r.q.Length() == r.capacity {
		r.q.Remove()
	}
	r.q.Add(t)
	r.mu.Unlock()
}

// Len returns the number of traces currently held.
func (r *TraceRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.Length()
}

// Snapshot copies the held traces in push order, oldest first.
func (r *TraceRing) Snapshot() []CycleTrace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CycleTrace, r.q.Length())
	for i := range out {
		out[i] = r.q.Get(i).(CycleTrace)
	}
	return out
}
