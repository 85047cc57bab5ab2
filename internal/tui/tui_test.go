// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/i18n"
	"github.com/toeirei/goclock/internal/model"
	"github.com/toeirei/goclock/internal/session"
)

func newTestModel(t *testing.T) (Model, *session.Session, *clockwork.FakeClock) {
	t.Helper()
	i18n.Init("en")
	fc := clockwork.NewFakeClock()
	b := NewBridge()
	s := session.New(clock.New(clock.WithClock(fc), clock.WithDispatcher(b)), session.WithClock(fc))
	m := New(context.Background(), s, b, Options{})
	m.now = fc.Now
	return m, s, fc
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestView_Initial(t *testing.T) {
	m, _, _ := newTestModel(t)
	v := m.View()
	for _, want := range []string{"goclock", "Black", "White", "no time limit", "press space to start"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}

func TestUpdate_SwitchAndPause(t *testing.T) {
	m, s, fc := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.status.ToMove == nil || *m.status.ToMove != model.Black {
		t.Fatalf("black should be to move: %+v", m.status)
	}
	fc.Advance(3 * time.Second)

	m, _ = update(t, m, runeKey('p'))
	if !m.status.Paused {
		t.Fatal("expected paused status")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Fatalf("view does not show pause:\n%s", m.View())
	}

	m, _ = update(t, m, runeKey('p'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if got := m.status.Players[model.Black].Display; got != "00:03" {
		t.Fatalf("black display = %q", got)
	}
	if st := s.Status(); st.ToMove == nil || *st.ToMove != model.White {
		t.Fatalf("white should be to move: %+v", st)
	}
}

func TestUpdate_PauseWithoutMove(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, runeKey('p'))
	if !m.isError || m.message != "press space to start" {
		t.Fatalf("message = %q (error=%v)", m.message, m.isError)
	}
}

func TestUpdate_TickRefreshesStatus(t *testing.T) {
	m, s, fc := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	fc.Advance(5 * time.Second)

	// A tick that changes nothing keeps the cached status.
	ran := false
	m, _ = update(t, m, tickMsg{fn: func() { ran = true }})
	if !ran {
		t.Fatal("tick function did not run")
	}
	if got := m.status.Players[model.Black].Display; got != "00:00" {
		t.Fatalf("status refreshed without a change: %q", got)
	}

	m.session.SetListener(m.bridge)
	defer s.SetListener(nil)
	m, _ = update(t, m, tickMsg{fn: m.bridge.ClockChanged})
	if got := m.status.Players[model.Black].Display; got != "00:05" {
		t.Fatalf("black display after tick = %q", got)
	}
}

func TestUpdate_UndoAndReset(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, runeKey('u'))
	if m.message != "nothing to undo" {
		t.Fatalf("message = %q", m.message)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, runeKey('r'))
	if m.status.ToMove != nil || m.message != "clock reset" {
		t.Fatalf("after reset: %+v %q", m.status, m.message)
	}
	m, _ = update(t, m, runeKey('u'))
	if m.status.ToMove == nil {
		t.Fatal("undo should restore the move in progress")
	}
}

func TestUpdate_Copy(t *testing.T) {
	m, _, _ := newTestModel(t)
	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}
	m, _ = update(t, m, runeKey('c'))
	if copied != "B 00:00 | W 00:00" {
		t.Fatalf("copied %q", copied)
	}
	if m.message != "status copied to clipboard" {
		t.Fatalf("message = %q", m.message)
	}

	m.copyFn = func(string) error { return errors.New("no clipboard") }
	m, _ = update(t, m, runeKey('c'))
	if !m.isError || !strings.Contains(m.message, "no clipboard") {
		t.Fatalf("message = %q", m.message)
	}
}

func TestUpdate_SaveWithoutStore(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, runeKey('s'))
	if !m.isError || m.message != "no snapshot store configured" {
		t.Fatalf("message = %q", m.message)
	}
}

func TestUpdate_Quit(t *testing.T) {
	m, s, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	_, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if st := s.Status(); !st.Paused {
		t.Fatal("quitting should halt the clock")
	}
}

func TestBridge(t *testing.T) {
	b := NewBridge()
	// Without a program ticks are dropped.
	b.Dispatch(func() { t.Fatal("tick should be dropped") })

	if b.takeChanged() {
		t.Fatal("new bridge reports a change")
	}
	b.ClockChanged()
	if !b.takeChanged() || b.takeChanged() {
		t.Fatal("takeChanged should report once")
	}
}

func TestAlignFooter(t *testing.T) {
	if got := AlignFooter("left", "right", 12); got != "left   right" {
		t.Fatalf("AlignFooter = %q", got)
	}
	if got := AlignFooter("left", "right", 3); got != "left right" {
		t.Fatalf("AlignFooter narrow = %q", got)
	}
}
