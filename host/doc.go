// Package host
// Author: momentics <momentics@gmail.com>
//
// Composition root of the real-time audio rendering host. A Host owns one
// audio driver, a pool of render worker threads, and a pool of busy
// threads, and sequences each render cycle:
//
//	RenderStarted → Process ×N (driver thread or worker fan-out/fan-in)
//	→ minimum-load padding → RenderEnded
//
// Worker and busy threads are created and destroyed only while the driver
// is stopped. Topology setters (thread counts, buffer size, work-interval
// flag) stop, apply, and restart atomically from the caller's view;
// minimumLoad and processInDriverThread apply immediately. Concurrent
// topology mutation from multiple goroutines is undefined; callers
// serialize externally.
package host
