// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/toeirei/goclock/internal/model"
)

// nextTick waits for one queued tick and runs it.
func nextTick(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Next(ctx); err != nil {
		t.Fatalf("no tick delivered: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestClock_TicksOncePerSecondWhileRunning(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := New(WithClock(fc))
	calls := 0
	c.SetListener(ListenerFunc(func() { calls++ }))
	c.StartMove(model.Black)

	for i := 1; i <= 3; i++ {
		fc.Advance(time.Second)
		nextTick(t, c.Queue())
		if calls != i {
			t.Fatalf("after %ds: %d listener calls, want %d", i, calls, i)
		}
	}

	c.Halt()
	base := calls
	fc.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	c.Queue().Drain()
	if calls != base {
		t.Fatalf("listener called %d times while halted", calls-base)
	}

	if err := c.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	fc.Advance(time.Second)
	nextTick(t, c.Queue())
	if calls != base+2 {
		t.Fatalf("calls = %d, want %d (resume + one tick)", calls, base+2)
	}
}

func TestClock_NoTicksWithoutListener(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := New(WithClock(fc))
	c.StartMove(model.White)
	fc.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if n := c.Queue().Pending(); n != 0 {
		t.Fatalf("%d ticks queued without listener", n)
	}
}

func TestClock_TickMarksExpiredPlayer(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := New(WithClock(fc))
	s, err := NewByoyomiSettings(2*time.Second, 2*time.Second, 1)
	if err != nil {
		t.Fatalf("NewByoyomiSettings: %v", err)
	}
	c.SetTimeSettings(s)
	c.Reset()
	c.SetListener(ListenerFunc(func() {}))
	c.StartMove(model.Black)
	for i := 0; i < 5; i++ {
		fc.Advance(time.Second)
		nextTick(t, c.Queue())
	}
	if !c.records[model.Black].lost {
		t.Fatalf("tick did not record the expired period")
	}
	// Stopping well after the loss keeps it.
	c.StopMove()
	if !c.LostOnTime(model.Black) {
		t.Fatalf("loss not sticky")
	}
}

func TestNotifier_StartIsIdempotent(t *testing.T) {
	fc := clockwork.NewFakeClock()
	q := NewQueue(8)
	n := NewNotifier(fc, time.Second, q)
	if !n.Start(func() {}) {
		t.Fatalf("first Start must arm the ticker")
	}
	if n.Start(func() {}) {
		t.Fatalf("second Start must be a no-op")
	}
	fc.Advance(time.Second)
	waitFor(t, func() bool { return q.Pending() > 0 })
	time.Sleep(20 * time.Millisecond)
	if p := q.Pending(); p != 1 {
		t.Fatalf("%d ticks for one interval, want 1", p)
	}
	n.Stop()
	if n.Active() {
		t.Fatalf("active after Stop")
	}
	n.Stop()
}

func TestNotifier_StaleTickAfterStopIsDropped(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var mu sync.Mutex
	var captured []func()
	n := NewNotifier(fc, time.Second, DispatcherFunc(func(fn func()) {
		mu.Lock()
		captured = append(captured, fn)
		mu.Unlock()
	}))

	fired := 0
	n.Start(func() { fired++ })
	fc.Advance(time.Second)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(captured) == 1
	})
	n.Stop()

	// Restarting bumps the generation; the old tick must stay dead.
	n.Start(func() { fired += 100 })
	mu.Lock()
	stale := captured[0]
	mu.Unlock()
	stale()
	if fired != 0 {
		t.Fatalf("stale tick ran its callback")
	}
	n.Stop()
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	ran := 0
	for i := 0; i < 5; i++ {
		q.Dispatch(func() { ran++ })
	}
	if q.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", q.Pending())
	}
	if n := q.Drain(); n != 2 || ran != 2 {
		t.Fatalf("drained %d, ran %d", n, ran)
	}
}

func TestQueue_RunStopsOnCancel(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
