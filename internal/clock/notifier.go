// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTickInterval is the refresh cadence while a clock is running.
const DefaultTickInterval = time.Second

// Dispatcher hands a tick over to the goroutine that owns the clock. The
// ticker goroutine never calls into the clock itself.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Queue is a bounded Dispatcher drained by the owner goroutine. Ticks are
// pure refresh signals, so Dispatch drops them when the queue is full
// instead of blocking the ticker.
type Queue struct {
	ch chan func()
}

// NewQueue returns a queue holding up to size pending ticks.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan func(), size)}
}

func (q *Queue) Dispatch(fn func()) {
	select {
	case q.ch <- fn:
	default:
	}
}

// Pending returns the number of queued ticks.
func (q *Queue) Pending() int { return len(q.ch) }

// Next blocks until one tick is queued and runs it on the calling goroutine.
func (q *Queue) Next(ctx context.Context) error {
	select {
	case fn := <-q.ch:
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs every queued tick without blocking and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run processes ticks until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		if err := q.Next(ctx); err != nil {
			return err
		}
	}
}

// TickerSource creates tickers. clockwork.Clock satisfies it.
type TickerSource interface {
	NewTicker(d time.Duration) clockwork.Ticker
}

// Notifier drives periodic refreshes while a clock is running. At most one
// ticker is active at a time; Start while active is a no-op. After Stop
// returns no callback from an earlier Start runs, even if its tick was
// already queued in the dispatcher.
type Notifier struct {
	source   TickerSource
	interval time.Duration
	dispatch Dispatcher

	mu     sync.Mutex
	gen    uint64
	active bool
	ticker clockwork.Ticker
	stop   chan struct{}
}

// NewNotifier returns a stopped notifier.
func NewNotifier(source TickerSource, interval time.Duration, d Dispatcher) *Notifier {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Notifier{source: source, interval: interval, dispatch: d}
}

// Start arms the ticker and returns true, or returns false if it was
// already active.
func (n *Notifier) Start(fn func()) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active {
		return false
	}
	n.gen++
	n.active = true
	n.ticker = n.source.NewTicker(n.interval)
	n.stop = make(chan struct{})
	go n.loop(n.ticker, n.stop, n.gen, fn)
	return true
}

func (n *Notifier) loop(t clockwork.Ticker, stop <-chan struct{}, gen uint64, fn func()) {
	for {
		select {
		case <-stop:
			return
		case <-t.Chan():
			n.dispatch.Dispatch(func() { n.fire(gen, fn) })
		}
	}
}

func (n *Notifier) fire(gen uint64, fn func()) {
	n.mu.Lock()
	live := n.active && n.gen == gen
	n.mu.Unlock()
	if live {
		fn()
	}
}

// Stop cancels the ticker. It is a no-op when not active.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return
	}
	n.active = false
	n.ticker.Stop()
	close(n.stop)
}

// Active reports whether a ticker is armed.
func (n *Notifier) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}
