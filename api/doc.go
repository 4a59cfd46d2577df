// Package api
// Author: momentics <momentics@gmail.com>
//
// Contracts of the rtaudio-host library: render callback types, the audio
// driver boundary, the stereo output buffer, and structured error types.
//
// The host owns exactly one driver and is the single registered owner of
// its render-entry capability. All four callbacks are fixed at host
// construction; their algorithmic content is the caller's concern, the host
// guarantees only invocation counts and ordering.
package api
