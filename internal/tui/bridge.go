// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg carries a clock tick into the program's event loop, which runs
// it through the session.
type tickMsg struct {
	fn func()
}

// Bridge connects a clock to a running program. Pass it to the clock as
// its Dispatcher; Run registers it as the clock listener.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
	changed atomic.Bool
}

// NewBridge returns a bridge that drops ticks until a program is attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Dispatch forwards a tick to the program.
func (b *Bridge) Dispatch(fn func()) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(tickMsg{fn: fn})
	}
}

// ClockChanged marks the displayed status as stale.
func (b *Bridge) ClockChanged() {
	b.changed.Store(true)
}

// takeChanged reports and clears the stale flag.
func (b *Bridge) takeChanged() bool {
	return b.changed.Swap(false)
}

func (b *Bridge) attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}
