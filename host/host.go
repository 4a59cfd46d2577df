// File: host/host.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Host lifecycle and configuration surface. Construction wires the render
// callback into the driver as its single owner; Start sizes and activates
// the pools, invokes Setup once, and starts the driver; Stop disables the
// driver first so no cycle remains in flight, then joins both pools.

package host

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/momentics/rtaudio-host/api"
	"github.com/momentics/rtaudio-host/control"
	"github.com/momentics/rtaudio-host/driver"
	"github.com/momentics/rtaudio-host/internal/concurrency"
)

// Host owns the driver, worker and busy thread pools, configuration, and
// the four render callbacks fixed at construction.
type Host struct {
	id      string
	driver  api.Driver
	workers *concurrency.WorkerPool
	busy    *concurrency.BusyPool
	metrics *control.Metrics
	trace   *control.TraceRing

	setup         api.Setup
	renderStarted api.RenderStarted
	process       api.Process
	renderEnded   api.RenderEnded

	mu      sync.Mutex // serializes lifecycle and topology mutation
	cfg     Config
	started bool

	// read on the render path without the lock
	sampleRate            float64
	processInDriverThread atomic.Bool
	minimumLoadBits       atomic.Uint64
}

// New constructs a host around the four callbacks. Nil callbacks are
// replaced with no-ops. The host registers itself as the driver's single
// callback owner, so a driver instance serves at most one host.
func New(setup api.Setup, renderStarted api.RenderStarted, process api.Process,
	renderEnded api.RenderEnded, opts ...Option) (*Host, error) {

	h := &Host{
		id:            uuid.NewString(),
		workers:       concurrency.NewWorkerPool(),
		busy:          concurrency.NewBusyPool(),
		setup:         setup,
		renderStarted: renderStarted,
		process:       process,
		renderEnded:   renderEnded,
		cfg:           *DefaultConfig(),
	}
	if h.setup == nil {
		h.setup = func(int) {}
	}
	if h.renderStarted == nil {
		h.renderStarted = func(int) {}
	}
	if h.process == nil {
		h.process = func(int, int) {}
	}
	if h.renderEnded == nil {
		h.renderEnded = func(*api.StereoBuffer, uint64, int) {}
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.cfg.validate(); err != nil {
		return nil, err
	}
	if h.driver == nil {
		h.driver = driver.NewSynthetic(driver.DefaultSampleRate, h.cfg.PreferredBufferSize)
	}
	if err := h.driver.SetCallback(h.render); err != nil {
		return nil, err
	}
	h.metrics = control.NewMetrics(h.id)
	h.trace = control.NewTraceRing(h.cfg.TraceCapacity)
	h.processInDriverThread.Store(h.cfg.ProcessInDriverThread)
	h.minimumLoadBits.Store(math.Float64bits(h.cfg.MinimumLoad))
	return h, nil
}

// ID returns the host instance identifier.
func (h *Host) ID() string { return h.id }

// Driver exposes the owned driver for configuration before Start.
func (h *Host) Driver() api.Driver { return h.driver }

// Metrics returns the per-cycle metrics collector.
func (h *Host) Metrics() *control.Metrics { return h.metrics }

// Trace returns the cycle trace ring.
func (h *Host) Trace() *control.TraceRing { return h.trace }

// Started reports whether the host is running.
func (h *Host) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

// Start activates the pools, invokes Setup exactly once with the size of
// the pool actually created, and starts the driver. Starting a started
// host returns ErrAlreadyStarted.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startLocked()
}

// Stop disables the driver, then tears down both pools, joining every
// thread. Stopping a stopped host is a no-op.
func (h *Host) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopLocked()
}

func (h *Host) startLocked() error {
	if h.started {
		return api.ErrAlreadyStarted
	}
	if h.cfg.NumWorkerThreads == 0 && !h.processInDriverThread.Load() {
		return api.NewError(api.ErrCodeInvalidConfig,
			"no worker threads and driver-thread processing disabled")
	}
	if err := h.driver.SetPreferredBufferSize(h.cfg.PreferredBufferSize); err != nil {
		return err
	}
	h.driver.SetWorkIntervalOn(h.cfg.WorkIntervalOn)
	h.sampleRate = h.driver.SampleRate()
	if h.cfg.NumWorkerThreads > 0 {
		if err := h.workers.Activate(h.cfg.NumWorkerThreads, h.process, h.cfg.PinWorkers); err != nil {
			return err
		}
	}
	if err := h.busy.Activate(h.cfg.NumBusyThreads); err != nil {
		h.workers.Deactivate()
		return err
	}
	h.setup(h.workers.Size())
	if err := h.driver.Start(); err != nil {
		h.workers.Deactivate()
		h.busy.Deactivate()
		return err
	}
	h.started = true
	return nil
}

func (h *Host) stopLocked() error {
	if !h.started {
		return nil
	}
	err := h.driver.Stop()
	h.workers.Deactivate()
	h.busy.Deactivate()
	h.started = false
	return err
}

// whileStopped applies a topology mutation with the driver stopped and
// restarts it afterwards if it was running. Callers hold h.mu.
func (h *Host) whileStopped(apply func()) error {
	wasStarted := h.started
	if wasStarted {
		if err := h.stopLocked(); err != nil {
			return err
		}
	}
	apply()
	if wasStarted {
		return h.startLocked()
	}
	return nil
}

// PreferredBufferSize returns the last applied buffer size in frames.
func (h *Host) PreferredBufferSize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.PreferredBufferSize
}

// SetPreferredBufferSize changes the buffer size, restarting if running.
func (h *Host) SetPreferredBufferSize(frames int) error {
	if frames <= 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "preferred buffer size must be > 0").
			WithContext("frames", frames)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if frames == h.cfg.PreferredBufferSize {
		return nil
	}
	return h.whileStopped(func() { h.cfg.PreferredBufferSize = frames })
}

// NumWorkerThreads returns the last applied worker thread count.
func (h *Host) NumWorkerThreads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.NumWorkerThreads
}

// SetNumWorkerThreads changes the worker pool size, restarting if running.
func (h *Host) SetNumWorkerThreads(n int) error {
	if n < 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "worker thread count must be >= 0").
			WithContext("workers", n)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == 0 && !h.processInDriverThread.Load() {
		return api.NewError(api.ErrCodeInvalidConfig,
			"cannot drop all workers while driver-thread processing is disabled")
	}
	if n == h.cfg.NumWorkerThreads {
		return nil
	}
	return h.whileStopped(func() { h.cfg.NumWorkerThreads = n })
}

// NumBusyThreads returns the last applied busy thread count.
func (h *Host) NumBusyThreads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.NumBusyThreads
}

// SetNumBusyThreads changes the busy pool size, restarting if running.
func (h *Host) SetNumBusyThreads(n int) error {
	if n < 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "busy thread count must be >= 0").
			WithContext("busy", n)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == h.cfg.NumBusyThreads {
		return nil
	}
	return h.whileStopped(func() { h.cfg.NumBusyThreads = n })
}

// ProcessInDriverThread reports whether Process runs on the callback thread.
func (h *Host) ProcessInDriverThread() bool {
	return h.processInDriverThread.Load()
}

// SetProcessInDriverThread toggles driver-thread processing. Applies
// immediately, without stopping the driver.
func (h *Host) SetProcessInDriverThread(on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !on && h.cfg.NumWorkerThreads == 0 {
		return api.NewError(api.ErrCodeInvalidConfig,
			"cannot disable driver-thread processing without worker threads")
	}
	h.cfg.ProcessInDriverThread = on
	h.processInDriverThread.Store(on)
	return nil
}

// IsWorkIntervalOn reports the last applied work-interval flag.
func (h *Host) IsWorkIntervalOn() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.WorkIntervalOn
}

// SetIsWorkIntervalOn toggles the callback thread's deadline scheduling
// class. The flag is forwarded to the driver unchanged; changing it on a
// running host restarts the driver.
func (h *Host) SetIsWorkIntervalOn(on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if on == h.cfg.WorkIntervalOn {
		return nil
	}
	return h.whileStopped(func() { h.cfg.WorkIntervalOn = on })
}

// MinimumLoad returns the current per-buffer CPU load floor.
func (h *Host) MinimumLoad() float64 {
	return math.Float64frombits(h.minimumLoadBits.Load())
}

// SetMinimumLoad sets the load floor, clamped to [0,1]. Applies immediately.
func (h *Host) SetMinimumLoad(load float64) error {
	if math.IsNaN(load) {
		return api.NewError(api.ErrCodeInvalidConfig, "minimum load must be a number")
	}
	if load < 0 {
		load = 0
	}
	if load > 1 {
		load = 1
	}
	h.mu.Lock()
	h.cfg.MinimumLoad = load
	h.mu.Unlock()
	h.minimumLoadBits.Store(math.Float64bits(load))
	return nil
}
