// File: internal/concurrency/semaphore.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Counting semaphore tuned for short waits on the render path. Acquire
// spins briefly before parking on a condition variable; Release never
// blocks. Two of these form the manual barrier of the worker rendezvous.

package concurrency

import (
	"runtime"
	"sync"
)

// acquireSpins bounds the pre-park spin phase of Acquire. Waits on the
// render path are typically shorter than a scheduler round trip, so a short
// spin avoids most futex traffic; the cap keeps idle workers off the CPU.
const acquireSpins = 4096

// Semaphore is a counting semaphore with blocking Acquire and
// non-blocking Release.
type Semaphore struct {
	mu      sync.Mutex
	cond    *sync.Cond
	permits int
}

// NewSemaphore creates a semaphore holding initial permits.
func NewSemaphore(initial int) *Semaphore {
	s := &Semaphore{permits: initial}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Acquire takes one permit, blocking until one is available.
func (s *Semaphore) Acquire() {
	for i := 0; i < acquireSpins; i++ {
		if s.TryAcquire() {
			return
		}
		if i&63 == 63 {
			runtime.Gosched()
		}
	}
	s.mu.Lock()
	for s.permits == 0 {
		s.cond.Wait()
	}
	s.permits--
	s.mu.Unlock()
}

// TryAcquire takes one permit without blocking, reporting success.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	if s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()
	return false
}

// Release adds one permit and wakes at most one waiter.
func (s *Semaphore) Release() {
	s.mu.Lock()
	s.permits++
	s.mu.Unlock()
	s.cond.Signal()
}
