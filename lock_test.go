package synq

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached within deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLock_MutualExclusion(t *testing.T) {
	var ex Executor
	l := New(&ex)

	const (
		tasks = 3
		iters = 10
		slots = 10
	)
	var shared [slots]int
	for range tasks {
		ex.Spawn(func(tk *Task) {
			for range iters {
				h := l.Acquire(tk)
				for i := range shared {
					shared[i]++
				}
				h.Release()
			}
		})
	}
	ex.Drive()

	for i, v := range shared {
		if v != tasks*iters {
			t.Fatalf("shared[%d] = %d, want %d", i, v, tasks*iters)
		}
	}
	l.Close()
}

func TestLock_Uncontended(t *testing.T) {
	var ex Executor
	l := New(&ex)
	ex.Spawn(func(tk *Task) {
		for range 100 {
			h := l.Acquire(tk)
			h.Release()
		}
	})
	ex.Drive()
	if n := l.WaitCount(); n != 0 {
		t.Fatalf("WaitCount = %d, want 0", n)
	}
	l.Close()
}

func TestLock_FIFO(t *testing.T) {
	var ex Executor
	l, held := NewLocked(&ex)

	const n = 3
	var order []int
	for i := range n {
		id := i + 1
		ex.Spawn(func(tk *Task) {
			h := l.Acquire(tk)
			order = append(order, id)
			h.Release()
		})
		// Make sure waiter id is queued before spawning the next one, so
		// arrival order is deterministic.
		waitFor(t, func() bool { return l.WaitCount() == id })
	}

	held.Release()
	ex.Drive()

	want := []int{1, 2, 3}
	if !slices.Equal(order, want) {
		t.Fatalf("resume order = %v, want %v", order, want)
	}
	l.Close()
}

func TestLock_NewLocked(t *testing.T) {
	var ex Executor
	l, held := NewLocked(&ex)

	var acquired atomic.Bool
	ex.Spawn(func(tk *Task) {
		h := l.Acquire(tk)
		acquired.Store(true)
		h.Release()
	})

	waitFor(t, func() bool { return l.WaitCount() == 1 })
	if acquired.Load() {
		t.Fatal("waiter entered a pre-locked Lock before release")
	}

	held.Release()
	ex.Drive()
	if !acquired.Load() {
		t.Fatal("waiter never resumed after release")
	}
	l.Close()
}

func TestLock_NoLostWakeup(t *testing.T) {
	var ex Executor
	l := New(&ex)

	const (
		spawners = 4
		perSpawn = 8
		iters    = 200
	)
	var counter int
	var g errgroup.Group
	for range spawners {
		g.Go(func() error {
			for range perSpawn {
				ex.Spawn(func(tk *Task) {
					for range iters {
						h := l.Acquire(tk)
						counter++
						h.Release()
					}
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	// Liveness: Drive only returns if every Acquire was eventually
	// granted.
	ex.Drive()

	if want := spawners * perSpawn * iters; counter != want {
		t.Fatalf("counter = %d, want %d", counter, want)
	}
	if n := l.WaitCount(); n != 0 {
		t.Fatalf("WaitCount = %d, want 0", n)
	}
	l.Close()
}

func TestHeld_DoubleReleasePanics(t *testing.T) {
	var ex Executor
	l := New(&ex)

	var h *Held
	ex.Spawn(func(tk *Task) {
		h = l.Acquire(tk)
	})
	ex.Drive()

	h.Release()
	defer func() {
		if recover() == nil {
			t.Fatal("second Release did not panic")
		}
	}()
	h.Release()
}

func TestLock_CloseIdle(t *testing.T) {
	var ex Executor
	l := New(&ex)
	l.Close()
	if n := l.WaitCount(); n != 0 {
		t.Fatalf("WaitCount = %d, want 0", n)
	}
}

func TestLock_CloseHeldPanics(t *testing.T) {
	var ex Executor
	l, _ := NewLocked(&ex)
	defer func() {
		if recover() == nil {
			t.Fatal("Close of held Lock did not panic")
		}
	}()
	l.Close()
}
