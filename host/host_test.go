// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package host

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/rtaudio-host/api"
	"github.com/momentics/rtaudio-host/fake"
)

// counters shared by the no-op-ish callbacks of a test host.
type cycleCounters struct {
	setupCalls   atomic.Int64
	setupWorkers atomic.Int64
	started      atomic.Int64
	processed    atomic.Int64
	ended        atomic.Int64

	mu      sync.Mutex
	indices map[int]int
}

func newCounters() *cycleCounters {
	return &cycleCounters{indices: make(map[int]int)}
}

func (c *cycleCounters) callbacks() (api.Setup, api.RenderStarted, api.Process, api.RenderEnded) {
	setup := func(n int) {
		c.setupCalls.Add(1)
		c.setupWorkers.Store(int64(n))
	}
	renderStarted := func(numFrames int) { c.started.Add(1) }
	process := func(threadIndex, numFrames int) {
		c.processed.Add(1)
		c.mu.Lock()
		c.indices[threadIndex]++
		c.mu.Unlock()
	}
	renderEnded := func(out *api.StereoBuffer, hostTime uint64, numFrames int) { c.ended.Add(1) }
	return setup, renderStarted, process, renderEnded
}

func TestHostPooledScenario(t *testing.T) {
	const workers = 4
	const cycles = 100

	fd := fake.NewDriver(48000, 512)
	c := newCounters()
	setup, rs, proc, re := c.callbacks()
	h, err := New(setup, rs, proc, re,
		WithDriver(fd),
		WithNumWorkerThreads(workers),
		WithProcessInDriverThread(false),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := c.setupCalls.Load(); got != 1 {
		t.Fatalf("setup calls = %d, want 1", got)
	}
	if got := c.setupWorkers.Load(); got != workers {
		t.Fatalf("setup worker count = %d, want %d", got, workers)
	}

	if err := fd.RunCycles(cycles); err != nil {
		t.Fatalf("cycles: %v", err)
	}

	if got := c.processed.Load(); got != workers*cycles {
		t.Errorf("process calls = %d, want %d", got, workers*cycles)
	}
	if got := c.started.Load(); got != cycles {
		t.Errorf("renderStarted calls = %d, want %d", got, cycles)
	}
	if got := c.ended.Load(); got != cycles {
		t.Errorf("renderEnded calls = %d, want %d", got, cycles)
	}
	c.mu.Lock()
	for i := 0; i < workers; i++ {
		if c.indices[i] != cycles {
			t.Errorf("index %d processed %d cycles, want %d", i, c.indices[i], cycles)
		}
	}
	if len(c.indices) != workers {
		t.Errorf("saw %d distinct indices, want %d", len(c.indices), workers)
	}
	c.mu.Unlock()

	stopStart := time.Now()
	if err := h.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if d := time.Since(stopStart); d > 100*time.Millisecond {
		t.Errorf("stop took %v, want < 100ms", d)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("double stop: %v", err)
	}
	if got := h.Metrics().Cycles(); got != cycles {
		t.Errorf("metric cycles = %d, want %d", got, cycles)
	}
	if got := h.Trace().Len(); got != cycles {
		t.Errorf("trace len = %d, want %d", got, cycles)
	}
}

func TestHostRenderEndedAfterAllProcessCalls(t *testing.T) {
	const workers = 4
	fd := fake.NewDriver(48000, 256)
	var processed atomic.Int64
	var mismatch atomic.Bool
	cycle := 0

	h, err := New(nil, nil,
		func(threadIndex, numFrames int) {
			time.Sleep(200 * time.Microsecond)
			processed.Add(1)
		},
		func(out *api.StereoBuffer, hostTime uint64, numFrames int) {
			cycle++
			if processed.Load() != int64(cycle*workers) {
				mismatch.Store(true)
			}
		},
		WithDriver(fd),
		WithNumWorkerThreads(workers),
		WithProcessInDriverThread(false),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()

	if err := fd.RunCycles(20); err != nil {
		t.Fatalf("cycles: %v", err)
	}
	if mismatch.Load() {
		t.Fatal("renderEnded observed incomplete process fan-in")
	}
}

func TestHostDriverThreadProcessing(t *testing.T) {
	fd := fake.NewDriver(48000, 512)
	c := newCounters()
	setup, rs, proc, re := c.callbacks()
	h, err := New(setup, rs, proc, re, WithDriver(fd)) // defaults: driver thread, 0 workers
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()

	if got := c.setupWorkers.Load(); got != 0 {
		t.Fatalf("setup worker count = %d, want 0", got)
	}
	if err := fd.RunCycles(10); err != nil {
		t.Fatalf("cycles: %v", err)
	}
	if got := c.processed.Load(); got != 10 {
		t.Errorf("process calls = %d, want 10", got)
	}
	c.mu.Lock()
	if len(c.indices) != 1 || c.indices[0] != 10 {
		t.Errorf("indices = %v, want {0:10}", c.indices)
	}
	c.mu.Unlock()
}

func TestHostRejectsNoProcessingPath(t *testing.T) {
	if _, err := New(nil, nil, nil, nil,
		WithDriver(fake.NewDriver(48000, 512)),
		WithNumWorkerThreads(2),
		WithProcessInDriverThread(false),
	); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	h, err := New(nil, nil, nil, nil,
		WithDriver(fake.NewDriver(48000, 512)),
		WithProcessInDriverThread(false), // 0 workers
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err == nil {
		t.Fatal("start must reject 0 workers with driver-thread processing off")
	}
}

func TestHostSettersValidateAndAvoidChurn(t *testing.T) {
	fd := fake.NewDriver(48000, 512)
	c := newCounters()
	setup, rs, proc, re := c.callbacks()
	h, err := New(setup, rs, proc, re,
		WithDriver(fd),
		WithNumWorkerThreads(2),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()

	// Re-applying the current value must not restart anything.
	if err := h.SetNumWorkerThreads(2); err != nil {
		t.Fatalf("set same workers: %v", err)
	}
	if fd.StartCalls != 1 || c.setupCalls.Load() != 1 {
		t.Fatalf("no-op setter caused churn: starts=%d setups=%d", fd.StartCalls, c.setupCalls.Load())
	}

	// A topology change restarts atomically from the caller's view.
	if err := h.SetNumBusyThreads(1); err != nil {
		t.Fatalf("set busy threads: %v", err)
	}
	if fd.StartCalls != 2 || fd.StopCalls != 1 {
		t.Fatalf("topology change: starts=%d stops=%d, want 2/1", fd.StartCalls, fd.StopCalls)
	}
	if c.setupCalls.Load() != 2 {
		t.Fatalf("setup calls = %d after restart, want 2", c.setupCalls.Load())
	}
	if !fd.Running() {
		t.Fatal("driver not running after topology change")
	}

	if err := h.SetPreferredBufferSize(256); err != nil {
		t.Fatalf("set buffer size: %v", err)
	}
	if h.PreferredBufferSize() != 256 || fd.PreferredBufferSize() != 256 {
		t.Fatal("buffer size not applied through restart")
	}

	// Validation failures are synchronous and leave state untouched.
	if err := h.SetNumWorkerThreads(-1); err == nil {
		t.Fatal("negative workers accepted")
	}
	if err := h.SetPreferredBufferSize(0); err == nil {
		t.Fatal("zero buffer size accepted")
	}
	if err := h.SetNumBusyThreads(-3); err == nil {
		t.Fatal("negative busy threads accepted")
	}
	if h.NumWorkerThreads() != 2 || h.NumBusyThreads() != 1 {
		t.Fatal("rejected setter mutated state")
	}
}

func TestHostMinimumLoadClampAndImmediateApply(t *testing.T) {
	h, err := New(nil, nil, nil, nil, WithDriver(fake.NewDriver(48000, 512)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.SetMinimumLoad(2.5); err != nil {
		t.Fatalf("set minimum load: %v", err)
	}
	if got := h.MinimumLoad(); got != 1 {
		t.Fatalf("minimum load = %v, want clamp to 1", got)
	}
	if err := h.SetMinimumLoad(-0.5); err != nil {
		t.Fatalf("set minimum load: %v", err)
	}
	if got := h.MinimumLoad(); got != 0 {
		t.Fatalf("minimum load = %v, want clamp to 0", got)
	}
}

func TestHostMinimumLoadPadsCycle(t *testing.T) {
	// 480 frames at 48 kHz: 10ms buffer period.
	fd := fake.NewDriver(48000, 480)
	h, err := New(nil, nil, nil, nil, WithDriver(fd), WithMinimumLoad(1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()

	begin := time.Now()
	if err := fd.RunCycle(480); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if d := time.Since(begin); d < 8*time.Millisecond {
		t.Fatalf("cycle took %v, want >= ~10ms under minimumLoad=1", d)
	}

	if err := h.SetMinimumLoad(0); err != nil {
		t.Fatalf("set minimum load: %v", err)
	}
	begin = time.Now()
	if err := fd.RunCycle(480); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if d := time.Since(begin); d > 5*time.Millisecond {
		t.Fatalf("cycle took %v with minimumLoad=0, want fast no-op", d)
	}
}

func TestHostRenderFailureIsLocalToOneCycle(t *testing.T) {
	fd := fake.NewDriver(48000, 512)
	var poison atomic.Bool
	var ended atomic.Int64
	h, err := New(nil, nil,
		func(threadIndex, numFrames int) {
			if poison.Load() {
				panic("synthetic process failure")
			}
		},
		func(out *api.StereoBuffer, hostTime uint64, numFrames int) { ended.Add(1) },
		WithDriver(fd),
		WithNumWorkerThreads(2),
		WithProcessInDriverThread(false),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()

	poison.Store(true)
	if err := fd.RunCycle(512); err == nil {
		t.Fatal("failed cycle reported success")
	}
	if got := ended.Load(); got != 0 {
		t.Fatal("renderEnded fired for a failed cycle")
	}

	poison.Store(false)
	if err := fd.RunCycle(512); err != nil {
		t.Fatalf("cycle after failure: %v", err)
	}
	if got := ended.Load(); got != 1 {
		t.Fatalf("renderEnded calls = %d, want 1", got)
	}
	if got := h.Metrics().Failures(); got != 1 {
		t.Fatalf("metric failures = %d, want 1", got)
	}
	if got := h.Metrics().Cycles(); got != 2 {
		t.Fatalf("metric cycles = %d, want 2", got)
	}
}

func TestHostDriverThreadPanicFailsCycle(t *testing.T) {
	fd := fake.NewDriver(48000, 512)
	h, err := New(nil, nil,
		func(int, int) { panic("driver-thread process failure") },
		nil,
		WithDriver(fd),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()

	if err := fd.RunCycle(512); err == nil {
		t.Fatal("panicking driver-thread cycle reported success")
	}
	if fd.Running() != true {
		t.Fatal("driver stopped by a failed cycle")
	}
}

func TestHostLifecycleIdempotence(t *testing.T) {
	h, err := New(nil, nil, nil, nil, WithDriver(fake.NewDriver(48000, 512)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("stop before start: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.Start(); !errors.Is(err, api.ErrAlreadyStarted) {
		t.Fatalf("double start: %v, want ErrAlreadyStarted", err)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("double stop: %v", err)
	}
}

func TestHostSingleDriverOwnership(t *testing.T) {
	fd := fake.NewDriver(48000, 512)
	if _, err := New(nil, nil, nil, nil, WithDriver(fd)); err != nil {
		t.Fatalf("first host: %v", err)
	}
	if _, err := New(nil, nil, nil, nil, WithDriver(fd)); !errors.Is(err, api.ErrCallbackOwned) {
		t.Fatalf("second host on same driver: %v, want ErrCallbackOwned", err)
	}
}

func TestHostProcessInDriverThreadGuards(t *testing.T) {
	h, err := New(nil, nil, nil, nil, WithDriver(fake.NewDriver(48000, 512)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.SetProcessInDriverThread(false); err == nil {
		t.Fatal("disabling driver-thread processing with 0 workers accepted")
	}
	if err := h.SetNumWorkerThreads(2); err != nil {
		t.Fatalf("set workers: %v", err)
	}
	if err := h.SetProcessInDriverThread(false); err != nil {
		t.Fatalf("disable driver-thread processing: %v", err)
	}
	if err := h.SetNumWorkerThreads(0); err == nil {
		t.Fatal("dropping all workers with driver-thread processing off accepted")
	}
	if !h.Started() {
		// setters above ran on a stopped host; forwarding still tracked
		if h.NumWorkerThreads() != 2 {
			t.Fatalf("workers = %d, want 2", h.NumWorkerThreads())
		}
	}
}

func TestHostWorkIntervalForwarding(t *testing.T) {
	fd := fake.NewDriver(48000, 512)
	h, err := New(nil, nil, nil, nil, WithDriver(fd), WithWorkInterval(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Stop()
	if !fd.WorkIntervalOn() {
		t.Fatal("work-interval flag not forwarded to driver")
	}
	if !h.IsWorkIntervalOn() {
		t.Fatal("work-interval getter lost the applied value")
	}
}
