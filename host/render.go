// File: host/render.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The time-critical render cycle. Invoked by the driver once per buffer;
// everything here must complete within one buffer period.

package host

import (
	"fmt"
	"log"
	"time"

	"github.com/momentics/rtaudio-host/api"
	"github.com/momentics/rtaudio-host/control"
)

// render sequences one cycle: RenderStarted, Process on the driver thread
// or fan-out across the worker pool, minimum-load padding, RenderEnded.
// Any callback panic or worker failure marks the cycle failed; RenderEnded
// is skipped for failed cycles so a partial buffer is never presented.
func (h *Host) render(numFrames int, hostTime uint64, out *api.StereoBuffer) (err error) {
	bufferStart := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[host] render callback panic: %v", r)
			err = api.NewError(api.ErrCodeRenderFailed, "render callback panicked").
				WithContext("panic", fmt.Sprint(r))
		}
		if err != nil {
			h.recordCycle(bufferStart, numFrames, hostTime, true)
		}
	}()

	if numFrames <= 0 {
		return api.NewError(api.ErrCodeRenderFailed, "render cycle needs numFrames > 0").
			WithContext("numFrames", numFrames)
	}

	h.renderStarted(numFrames)
	if h.processInDriverThread.Load() {
		h.process(0, numFrames)
	} else if err = h.workers.Render(numFrames); err != nil {
		return err
	}
	h.ensureMinimumLoad(bufferStart, numFrames)
	h.renderEnded(out, hostTime, numFrames)
	h.recordCycle(bufferStart, numFrames, hostTime, false)
	return nil
}

// ensureMinimumLoad pads the cycle's CPU-active time up to
// minimumLoad × bufferPeriod. Busy-waits; sleeping would change the
// occupancy being enforced. No-op when real work already met the target.
func (h *Host) ensureMinimumLoad(bufferStart time.Time, numFrames int) {
	load := h.MinimumLoad()
	if load <= 0 {
		return
	}
	target := time.Duration(load * float64(h.bufferPeriod(numFrames)))
	for time.Since(bufferStart) < target {
	}
}

// bufferPeriod is the real-time deadline of a cycle: numFrames / sampleRate.
func (h *Host) bufferPeriod(numFrames int) time.Duration {
	if h.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(numFrames) / h.sampleRate * float64(time.Second))
}

func (h *Host) recordCycle(bufferStart time.Time, numFrames int, hostTime uint64, failed bool) {
	elapsed := time.Since(bufferStart)
	deadline := h.bufferPeriod(numFrames)
	h.metrics.RecordCycle(elapsed, deadline, failed)
	if h.trace != nil {
		h.trace.Push(control.CycleTrace{
			HostTime:  hostTime,
			NumFrames: numFrames,
			Duration:  elapsed.Nanoseconds(),
			Deadline:  deadline.Nanoseconds(),
			Workers:   h.workers.Size(),
			Failed:    failed,
		})
	}
}
