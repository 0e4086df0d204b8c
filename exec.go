package synq

import (
	"sync"
)

// Executor is a minimal Scheduler: each spawned task gets its own
// goroutine and a suspended task is resumed in place, leaving thread
// placement to the Go runtime's worker pool.
//
// It is zero-value usable.
type Executor struct {
	_  noCopy
	wg sync.WaitGroup
}

// Spawn starts fn as a new task.
func (e *Executor) Spawn(fn func(t *Task)) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		var t Task
		fn(&t)
	}()
}

// Resume submits a suspended task for execution. Safe from any goroutine.
func (e *Executor) Resume(t *Task) {
	t.unpark()
}

// Drive pumps until every spawned task has run to completion.
func (e *Executor) Drive() {
	e.wg.Wait()
}
