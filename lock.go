package synq

import (
	"sync/atomic"
)

// Lock is an asynchronous mutual-exclusion lock for cooperatively
// scheduled tasks.
//
// A task that cannot take the lock does not block its OS thread: it joins
// a FIFO wait queue and suspends, and a later release hands ownership
// straight to it through the Scheduler.
//
// Implementation:
// The metadata is lock-free. Acquire always enqueues first and only then
// bids for the lock with an atomic swap of the held flag, which removes
// the race between "check if free" and "enqueue if not". Release either
// dequeues the next waiter and resumes it (ownership transfers, held
// stays true) or publishes the queue-empty hint, clears held, and
// revalidates, looping until the queue is provably empty or some other
// task has taken over the drain duty.
//
// Trade-offs:
//   - Pros: strict FIFO fairness, no thread ever sleeps inside Acquire,
//     and contended handoff never passes through an unlocked state.
//   - Cons: even an uncontended Acquire pays one enqueue/dequeue pair.
//
// A Lock must not be copied after first use.
type Lock struct {
	_     noCopy
	sched Scheduler

	// held is true iff some task owns the lock or a drain is in flight.
	held atomic.Bool

	// queueEmpty is a hint, not a count: true only when the lock can
	// prove no waiter is enqueued. It may transiently read true while an
	// enqueue is in flight; release revalidates before trusting it.
	queueEmpty atomic.Bool

	waiters waitQueue
}

// New returns an unlocked Lock that resumes waiters through sched.
func New(sched Scheduler) *Lock {
	l := &Lock{sched: sched}
	l.queueEmpty.Store(true)
	return l
}

// NewLocked returns a Lock whose creator is already the holder, together
// with the guard that releases it. To the first acquirer the lock behaves
// exactly as if another task had acquired it moments earlier.
func NewLocked(sched Scheduler) (*Lock, *Held) {
	l := New(sched)
	l.held.Store(true)
	return l, &Held{lock: l}
}

// Acquire obtains exclusive ownership for t, suspending it until its turn
// comes. It never fails; it only delays. The returned guard is the sole
// way to release.
//
// Acquire is not re-entrant: a task acquiring a lock it already holds
// deadlocks.
func (l *Lock) Acquire(t *Task) *Held {
	// Join the queue unconditionally, even if the lock looks free.
	// Enqueuing before bidding is what removes the check-then-enqueue
	// race.
	l.waiters.push(t)

	// The queue is now certainly non-empty; some task must drain it.
	l.queueEmpty.Store(false)

	if !l.held.Swap(true) {
		// The lock was free, so this task won the drain role. Resume
		// the head of the queue, which may or may not be t itself;
		// either way exactly one task proceeds as the owner.
		if next, ok := l.waiters.pop(); ok {
			l.sched.Resume(next)
		}
	}

	t.suspend()
	if t.canceled.Load() {
		panic("synq: task canceled while waiting on a closed Lock")
	}
	return &Held{lock: l}
}

// WaitCount returns the number of tasks currently queued on the lock.
func (l *Lock) WaitCount() int {
	return l.waiters.len()
}

// Close tears the lock down. The lock must be unlocked; closing a held
// Lock panics. A task still queued at this point is a caller error: it is
// removed and forcibly canceled so its handle does not dangle.
//
// Close must only be called once every acquire/release pair in flight has
// completed.
func (l *Lock) Close() {
	if l.held.Load() {
		panic("synq: Close of held Lock")
	}
	for {
		t, ok := l.waiters.pop()
		if !ok {
			return
		}
		t.cancel()
	}
}

// Held is the capability returned by a successful Acquire: the exclusive
// proof of ownership and the only way to give it up. It is one-shot;
// releasing it twice panics.
type Held struct {
	lock *Lock
}

// Release relinquishes ownership: either the lock is handed directly to
// the next queued waiter, or, if the queue is empty, it is freed after
// revalidating that no acquirer slipped in concurrently.
//
// Release must be called exactly once, by the task that acquired.
func (h *Held) Release() {
	l := h.lock
	if l == nil {
		panic("synq: Release of released Held")
	}
	h.lock = nil
	if !l.held.Load() {
		panic("synq: Release of unlocked Lock")
	}
	l.release()
}

func (l *Lock) release() {
	for {
		if next, ok := l.waiters.pop(); ok {
			// Direct handoff: ownership moves to next without the lock
			// ever reading as free, so no flag churn.
			l.sched.Resume(next)
			return
		}

		// Nothing to dequeue. Publish the empty hint, then drop the
		// lock.
		l.queueEmpty.Store(true)
		l.held.Store(false)

		// Revalidate. An acquirer may have enqueued between the failed
		// pop and the stores above; it cleared the hint, but the store
		// above may in turn have overwritten that clear, so the hint
		// alone cannot prove emptiness. The queue is the ground truth;
		// the hint short-circuits the probe when the race is already
		// evident.
		if l.queueEmpty.Load() && l.waiters.len() == 0 {
			return
		}

		// Raced with an enqueue. Bid to take the drain duty back. Losing
		// the bid means the acquirer won the swap and with the lock took
		// over the duty to drain.
		if l.held.Swap(true) {
			return
		}
	}
}
