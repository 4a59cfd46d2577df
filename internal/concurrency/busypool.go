// File: internal/concurrency/busypool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool of threads that saturate CPU cores to simulate background load.
// Busy threads never synchronize with the render path; contention for
// cores is their entire purpose.

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/rtaudio-host/api"
)

// busyPollMask bounds how many spin iterations pass between checks of the
// active flag, which in turn bounds Deactivate latency.
const busyPollMask = 0x3FF

var busySink atomic.Uint64

// BusyPool runs size independent spinning threads until deactivated.
type BusyPool struct {
	active atomic.Bool
	size   int
	wg     sync.WaitGroup
}

// NewBusyPool returns an inactive pool.
func NewBusyPool() *BusyPool {
	return &BusyPool{}
}

// Activate spawns size busy threads. Activate(0) is a no-op.
func (p *BusyPool) Activate(size int) error {
	if size < 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "busy pool size must be >= 0").
			WithContext("size", size)
	}
	if p.active.Load() {
		return api.ErrAlreadyStarted
	}
	if size == 0 {
		return nil
	}
	p.size = size
	p.active.Store(true)
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.busyThread()
	}
	return nil
}

// Deactivate stops all busy threads and joins them. Safe on an inactive pool.
func (p *BusyPool) Deactivate() {
	if !p.active.CompareAndSwap(true, false) {
		return
	}
	p.wg.Wait()
	p.size = 0
}

// Active reports whether busy threads are alive.
func (p *BusyPool) Active() bool { return p.active.Load() }

// Size returns the number of active busy threads, 0 when inactive.
func (p *BusyPool) Size() int {
	if !p.active.Load() {
		return 0
	}
	return p.size
}

// busyThread spins without yielding or sleeping. Sleeping would let the
// core drop into a low-power state, which is exactly the condition the
// pool exists to prevent.
func (p *BusyPool) busyThread() {
	defer p.wg.Done()
	runtime.LockOSThread()
	var sink uint64
	for i := uint64(1); ; i++ {
		sink += i*i ^ sink>>3
		if i&busyPollMask == 0 && !p.active.Load() {
			break
		}
	}
	busySink.Store(sink)
}
