package synq

import (
	"github.com/gammazero/deque"
)

// waitQueue is the multi-producer multi-consumer FIFO of tasks waiting on
// a Lock. The deque itself is not concurrency-safe, so every operation
// runs under a short spinlock; push and pop are therefore atomic with
// respect to each other, which is all the handoff protocol requires.
type waitQueue struct {
	mu spinLock
	q  deque.Deque[*Task]
}

func (w *waitQueue) push(t *Task) {
	w.mu.lock()
	w.q.PushBack(t)
	w.mu.unlock()
}

// pop removes and returns the oldest waiter, if any.
func (w *waitQueue) pop() (*Task, bool) {
	w.mu.lock()
	if w.q.Len() == 0 {
		w.mu.unlock()
		return nil, false
	}
	t := w.q.PopFront()
	w.mu.unlock()
	return t, true
}

// remove unlinks t wherever it sits in the queue. It is the compensating
// action for cancelling a queued task: a handle that stays linked past
// its task's destruction would later be resumed dangling.
func (w *waitQueue) remove(t *Task) bool {
	w.mu.lock()
	i := w.q.Index(func(q *Task) bool { return q == t })
	if i < 0 {
		w.mu.unlock()
		return false
	}
	w.q.Remove(i)
	w.mu.unlock()
	return true
}

func (w *waitQueue) len() int {
	w.mu.lock()
	n := w.q.Len()
	w.mu.unlock()
	return n
}
