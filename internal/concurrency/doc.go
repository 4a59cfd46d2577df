// Package concurrency implements the real-time rendezvous primitives of the
// audio host: a counting semaphore with a bounded spin phase, the worker
// thread pool with its per-buffer fan-out/fan-in protocol, the busy thread
// pool used as a CPU load generator, and platform-split enrollment of
// threads into deadline-aware scheduling classes.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker and busy threads are goroutines locked to their OS threads, so
// affinity and scheduling-class syscalls act on a dedicated kernel thread.
// The only blocking point on the real-time path is the fan-in wait on the
// finished semaphore.
package concurrency
