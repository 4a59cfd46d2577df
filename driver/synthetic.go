// File: driver/synthetic.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Clock-paced synthetic audio driver. One dedicated OS thread invokes the
// registered render callback once per buffer period, reusing a single
// stereo buffer that is caller-owned for the duration of each call.

package driver

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/rtaudio-host/api"
	"github.com/momentics/rtaudio-host/internal/concurrency"
)

// DefaultSampleRate is used when the caller passes a non-positive rate.
const DefaultSampleRate = 48000

// Synthetic is a timer-driven api.Driver.
type Synthetic struct {
	mu           sync.Mutex
	cb           api.RenderCallback
	sampleRate   float64
	bufferSize   int
	workInterval bool

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

var _ api.Driver = (*Synthetic)(nil)

// NewSynthetic creates a stopped synthetic driver.
func NewSynthetic(sampleRate float64, bufferSize int) *Synthetic {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if bufferSize <= 0 {
		bufferSize = 512
	}
	return &Synthetic{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
	}
}

// SetCallback registers the single render-entry owner.
func (s *Synthetic) SetCallback(cb api.RenderCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cb != nil {
		return api.ErrCallbackOwned
	}
	if cb == nil {
		return api.ErrInvalidConfig
	}
	s.cb = cb
	return nil
}

// PreferredBufferSize reports the last applied buffer size in frames.
func (s *Synthetic) PreferredBufferSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bufferSize
}

// SetPreferredBufferSize applies a new buffer size while stopped.
func (s *Synthetic) SetPreferredBufferSize(frames int) error {
	if s.running.Load() {
		return api.ErrDriverRunning
	}
	if frames <= 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "buffer size must be > 0").
			WithContext("frames", frames)
	}
	s.mu.Lock()
	s.bufferSize = frames
	s.mu.Unlock()
	return nil
}

// SampleRate reports the stream sample rate in Hz.
func (s *Synthetic) SampleRate() float64 { return s.sampleRate }

// SetWorkIntervalOn stores the scheduling-class flag, applied at next Start.
func (s *Synthetic) SetWorkIntervalOn(on bool) {
	s.mu.Lock()
	s.workInterval = on
	s.mu.Unlock()
}

// Start begins delivering render callbacks from a dedicated thread.
func (s *Synthetic) Start() error {
	s.mu.Lock()
	cb, frames, workInterval := s.cb, s.bufferSize, s.workInterval
	s.mu.Unlock()
	if cb == nil {
		return api.NewError(api.ErrCodeLifecycle, "no render callback registered")
	}
	if !s.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyStarted
	}
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run(cb, frames, workInterval)
	return nil
}

// Stop ceases callback delivery and returns once no callback is in flight.
// Stopping a stopped driver is a no-op.
func (s *Synthetic) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	close(s.done)
	s.wg.Wait()
	return nil
}

func (s *Synthetic) run(cb api.RenderCallback, frames int, workInterval bool) {
	defer s.wg.Done()
	runtime.LockOSThread()

	period := time.Duration(float64(frames) / s.sampleRate * float64(time.Second))
	if workInterval {
		// Budget half the period for computation, leaving headroom for
		// the rest of the callback chain.
		if err := concurrency.EnterWorkInterval(period, period/2); err != nil {
			log.Printf("[driver] work interval enrollment failed: %v", err)
		} else {
			defer func() {
				if err := concurrency.LeaveWorkInterval(); err != nil {
					log.Printf("[driver] leaving work interval failed: %v", err)
				}
			}()
		}
	}

	buf := api.NewStereoBuffer(frames)
	next := time.Now()
	for {
		select {
		case <-s.done:
			return
		default:
		}
		hostTime := uint64(time.Now().UnixNano())
		if err := cb(frames, hostTime, buf); err != nil {
			// A failed cycle drops one buffer; the stream keeps running.
			log.Printf("[driver] dropped buffer: %v", err)
		}
		next = next.Add(period)
		if d := time.Until(next); d > 0 {
			time.Sleep(d)
		} else {
			// Overran one or more periods; resynchronize instead of
			// bursting callbacks to catch up.
			next = time.Now()
		}
	}
}
