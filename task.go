package synq

import (
	"sync/atomic"

	"github.com/taskloop/synq/internal/opt"
)

// A Task is the opaque handle of one cooperatively scheduled unit of
// work. While a task waits on a Lock the handle is owned by the lock's
// wait queue; the instant a release submits it to the Scheduler that
// ownership moves with it.
//
// A Task must not be copied and must not be shared between two concurrent
// units of work.
type Task struct {
	_        noCopy
	pauseSem opt.Sema
	canceled atomic.Bool
}

// Scheduler is the single primitive synq needs from the surrounding
// runtime: submit a suspended task to run at its next opportunity.
//
// Resume is fire-and-forget and must be safe to call from any goroutine.
// The resumed task may run on a different OS thread than the one that
// suspended it. It is legal for Resume to arrive shortly before the task
// reaches its suspension point; the suspension then returns immediately
// instead of waiting.
type Scheduler interface {
	Resume(t *Task)
}

// suspend parks the task until a Scheduler resumes it.
func (t *Task) suspend() {
	t.pauseSem.Acquire()
}

// unpark makes the task's pending or future suspend return.
func (t *Task) unpark() {
	t.pauseSem.Release()
}

// cancel poisons a queued task and lets it run into its cancellation
// check. Only valid while the task is queued and not yet resumed.
func (t *Task) cancel() {
	t.canceled.Store(true)
	t.pauseSem.Release()
}
