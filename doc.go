// Package synq provides an asynchronous, strictly fair mutual-exclusion
// lock for coroutine-style task runtimes.
//
// The primitives in sync park the calling goroutine and rely on the Go
// runtime to wake it. synq instead models the waiting unit of work as an
// explicit, opaque Task handle and routes every wakeup through a single
// Scheduler primitive supplied by the surrounding runtime. That makes the
// lock usable inside custom cooperative schedulers (event loops, batched
// I/O reactors) where resumption must flow through the runtime's own
// run queue rather than directly through the Go scheduler.
//
// Key components:
//
//   - Task: the handle of one cooperatively scheduled unit of work. A
//     task suspends without blocking an OS thread and is resumed through
//     a Scheduler, possibly on a different thread.
//
//   - Scheduler: the one operation synq consumes from the runtime:
//     submit a suspended task to run at its next opportunity.
//
//   - Executor: a minimal Scheduler backed by the Go runtime, one
//     goroutine per task. Useful on its own and in tests.
//
//   - Lock / Held: the lock and the one-shot release capability returned
//     by a successful acquire. Ownership moves from the releasing task
//     directly to the next waiter in FIFO order, without an intermediate
//     unlocked state.
//
//   - LockGroup: dynamic per-key locks with automatic cleanup.
package synq
