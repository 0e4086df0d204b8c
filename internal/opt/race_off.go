//go:build !race

package opt

import (
	_ "unsafe" // for linkname
)

// Sema is a zero-allocation counting semaphore used as a task park point.
// In !race mode it wraps runtime.semacquire/semrelease directly.
//
// Release before Acquire is legal: the token is retained and the next
// Acquire returns immediately. This is what makes resume-before-suspend
// safe for task handoff.
type Sema struct {
	u uint32
}

// Acquire takes one token, sleeping until one is available.
func (s *Sema) Acquire() {
	runtime_semacquire(&s.u)
}

// Release deposits one token, waking one sleeper if present.
func (s *Sema) Release() {
	runtime_semrelease(&s.u, false, 0)
}

//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
