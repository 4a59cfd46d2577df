// File: internal/concurrency/workerpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size pool of render worker threads and the per-buffer rendezvous
// protocol. Each cycle the orchestrator releases the start semaphore once
// per worker, every worker runs its Process partition exactly once, and the
// orchestrator collects exactly as many finished signals before returning.

package concurrency

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/rtaudio-host/affinity"
	"github.com/momentics/rtaudio-host/api"
)

// WorkerPool owns n long-lived render threads parked on a start semaphore.
// Activation and deactivation must happen while no render cycle is in
// flight; the host guarantees this by stopping the driver first.
type WorkerPool struct {
	start    *Semaphore
	finished *Semaphore

	active      atomic.Bool
	numFrames   atomic.Int64
	cycleFailed atomic.Bool

	size    int
	process api.Process
	wg      sync.WaitGroup
}

// NewWorkerPool returns an inactive pool.
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{
		start:    NewSemaphore(0),
		finished: NewSemaphore(0),
	}
}

// Activate spawns size worker threads running process. Indices 0..size-1
// are fixed at spawn. When pin is set, worker i is pinned to CPU
// i mod NumCPU; pin failures are logged and non-fatal.
func (p *WorkerPool) Activate(size int, process api.Process, pin bool) error {
	if size < 1 {
		return api.NewError(api.ErrCodeInvalidConfig, "worker pool size must be >= 1").
			WithContext("size", size)
	}
	if process == nil {
		return api.NewError(api.ErrCodeInvalidConfig, "worker pool needs a process callback")
	}
	if p.active.Load() {
		return api.ErrAlreadyStarted
	}
	p.size = size
	p.process = process
	p.active.Store(true)
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.workerThread(i, pin)
	}
	return nil
}

// Deactivate wakes every parked worker so it observes the inactive flag,
// then joins all threads. Safe to call on an inactive pool.
func (p *WorkerPool) Deactivate() {
	if !p.active.CompareAndSwap(true, false) {
		return
	}
	for i := 0; i < p.size; i++ {
		p.start.Release()
	}
	p.wg.Wait()
	p.size = 0
	p.process = nil
}

// Active reports whether worker threads are alive.
func (p *WorkerPool) Active() bool { return p.active.Load() }

// Size returns the number of active workers, 0 when inactive.
func (p *WorkerPool) Size() int {
	if !p.active.Load() {
		return 0
	}
	return p.size
}

// Render runs one fan-out/fan-in cycle: every worker processes numFrames
// once, and Render returns only after all of them signalled completion.
// A worker panic marks the cycle failed without breaking the rendezvous.
func (p *WorkerPool) Render(numFrames int) error {
	if !p.active.Load() {
		return api.ErrPoolNotActive
	}
	p.cycleFailed.Store(false)
	p.numFrames.Store(int64(numFrames))
	for i := 0; i < p.size; i++ {
		p.start.Release()
	}
	for i := 0; i < p.size; i++ {
		p.finished.Acquire()
	}
	if p.cycleFailed.Load() {
		return api.ErrRenderFailed
	}
	return nil
}

func (p *WorkerPool) workerThread(index int, pin bool) {
	defer p.wg.Done()
	runtime.LockOSThread()
	if pin {
		if err := affinity.SetAffinity(index % runtime.NumCPU()); err != nil {
			log.Printf("[workers] pinning worker %d failed: %v", index, err)
		}
	}
	for {
		p.start.Acquire()
		if !p.active.Load() {
			return
		}
		p.invoke(index, int(p.numFrames.Load()))
		p.finished.Release()
	}
}

// invoke shields the rendezvous from a panicking Process: the finished
// signal must fire exactly once per worker per cycle or fan-in deadlocks.
func (p *WorkerPool) invoke(index, numFrames int) {
	defer func() {
		if r := recover(); r != nil {
			p.cycleFailed.Store(true)
			log.Printf("[workers] process panic on worker %d: %v", index, r)
		}
	}()
	p.process(index, numFrames)
}
