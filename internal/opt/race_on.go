//go:build race

package opt

import (
	"sync"
)

// Sema under the race detector: a conservative mutex/cond counting
// semaphore, so the detector observes the release→acquire happens-before
// edge that the runtime semaphore provides without annotations.
//
// Semantics match the !race variant: Release before Acquire retains the
// token and the next Acquire returns immediately.
type Sema struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    uint32
}

// Acquire takes one token, sleeping until one is available.
func (s *Sema) Acquire() {
	s.mu.Lock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	for s.n == 0 {
		s.cond.Wait()
	}
	s.n--
	s.mu.Unlock()
}

// Release deposits one token, waking one sleeper if present.
func (s *Sema) Release() {
	s.mu.Lock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	s.n++
	s.cond.Signal()
	s.mu.Unlock()
}
