// File: host/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package host

import (
	"math"

	"github.com/momentics/rtaudio-host/api"
	"github.com/momentics/rtaudio-host/control"
)

// Config holds the host parameters applied at Start.
// Thread counts, buffer size, and the work-interval flag are topology
// values: changing them on a running host stops and restarts the driver.
type Config struct {
	PreferredBufferSize   int     // render buffer size in frames
	NumWorkerThreads      int     // render worker threads, 0 = driver thread only
	NumBusyThreads        int     // background CPU load threads
	ProcessInDriverThread bool    // run Process on the callback thread
	WorkIntervalOn        bool    // enroll the callback thread in a deadline scheduling class
	MinimumLoad           float64 // pad CPU-active time to this fraction of the buffer period, [0,1]
	PinWorkers            bool    // pin worker i to CPU i mod NumCPU
	TraceCapacity         int     // cycle trace ring capacity
}

// DefaultConfig returns the defaults: driver-thread processing, no worker
// or busy threads, 512-frame buffers, no load padding.
func DefaultConfig() *Config {
	return &Config{
		PreferredBufferSize:   512,
		NumWorkerThreads:      0,
		NumBusyThreads:        0,
		ProcessInDriverThread: true,
		WorkIntervalOn:        false,
		MinimumLoad:           0,
		PinWorkers:            false,
		TraceCapacity:         control.DefaultTraceCapacity,
	}
}

func (c *Config) validate() error {
	if c.PreferredBufferSize <= 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "preferred buffer size must be > 0").
			WithContext("frames", c.PreferredBufferSize)
	}
	if c.NumWorkerThreads < 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "worker thread count must be >= 0").
			WithContext("workers", c.NumWorkerThreads)
	}
	if c.NumBusyThreads < 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "busy thread count must be >= 0").
			WithContext("busy", c.NumBusyThreads)
	}
	if math.IsNaN(c.MinimumLoad) || c.MinimumLoad < 0 || c.MinimumLoad > 1 {
		return api.NewError(api.ErrCodeInvalidConfig, "minimum load must be in [0,1]").
			WithContext("minimumLoad", c.MinimumLoad)
	}
	return nil
}
