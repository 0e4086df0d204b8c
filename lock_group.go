package synq

import (
	"github.com/llxisdsh/pb"
)

// LockGroup provides asynchronous locking on arbitrary keys (string, int,
// struct, etc.). It dynamically manages a set of Locks associated with
// keys.
//
// Features:
//   - Infinite Keys: no need to pre-allocate locks.
//   - Auto-Cleanup: a key's lock is removed from memory once the last
//     holder releases and no one else is waiting.
//   - Low Overhead: backed by a sharded concurrent map.
//
// Usage:
//
//	g := synq.NewLockGroup[string](sched)
//	h := g.Acquire("user-123", task)
//	// critical section for user-123
//	g.Release("user-123", h)
//
// Implementation Note:
// It uses reference counting to safely delete entries; the count covers
// holders and waiters alike, so a lock is only closed when provably idle.
type LockGroup[K comparable] struct {
	_     noCopy
	sched Scheduler
	m     pb.MapOf[K, *lockGroupEntry]
}

type lockGroupEntry struct {
	l   *Lock
	ref int32
}

// NewLockGroup returns an empty group whose locks resume waiters through
// sched.
func NewLockGroup[K comparable](sched Scheduler) *LockGroup[K] {
	return &LockGroup[K]{sched: sched}
}

// Acquire obtains the lock for key k on behalf of t, suspending t until
// its turn comes. Release the returned guard through g.Release, not
// directly, so the entry's lifetime stays accounted for.
func (g *LockGroup[K]) Acquire(k K, t *Task) *Held {
	e, _ := g.m.ProcessEntry(
		k,
		func(le *pb.EntryOf[K, *lockGroupEntry]) (*pb.EntryOf[K, *lockGroupEntry], *lockGroupEntry, bool) {
			if le != nil {
				le.Value.ref++
				return le, le.Value, true
			}
			v := &lockGroupEntry{l: New(g.sched), ref: 1}
			return &pb.EntryOf[K, *lockGroupEntry]{Value: v}, v, false
		},
	)
	return e.l.Acquire(t)
}

// Release relinquishes h, which must have been returned by Acquire on the
// same key, and deletes the key's lock if no holder or waiter remains.
func (g *LockGroup[K]) Release(k K, h *Held) {
	h.Release()
	g.m.ProcessEntry(
		k,
		func(le *pb.EntryOf[K, *lockGroupEntry]) (*pb.EntryOf[K, *lockGroupEntry], *lockGroupEntry, bool) {
			if le == nil {
				return nil, nil, false
			}
			le.Value.ref--
			if le.Value.ref <= 0 {
				le.Value.l.Close()
				return nil, nil, true
			}
			return le, le.Value, false
		},
	)
}

// Len returns the number of keys currently locked or awaited.
func (g *LockGroup[K]) Len() int {
	n := 0
	g.m.Range(func(k K, v *lockGroupEntry) bool {
		n++
		return true
	})
	return n
}
