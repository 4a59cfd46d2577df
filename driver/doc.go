// Package driver provides audio backends implementing api.Driver.
// Author: momentics <momentics@gmail.com>
//
// Synthetic is a portable clock-paced backend: it delivers render callbacks
// at buffer-period cadence from a dedicated OS thread, with the same
// ownership contract as a hardware unit (one callback owner, buffer valid
// only for the duration of the call). Hardware backends live outside this
// module and plug in through the same interface.
package driver
