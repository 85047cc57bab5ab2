// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/db"
	"github.com/toeirei/goclock/internal/model"
)

func newTestSession(t *testing.T, opts ...Option) (*Session, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClock()
	c := clock.New(clock.WithClock(fc))
	opts = append([]Option{WithClock(fc)}, opts...)
	return New(c, opts...), fc
}

func newTestStore(t *testing.T) *db.BunStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := db.NewStoreFromDSN("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func withByoyomi(t *testing.T, s *Session) {
	t.Helper()
	if err := s.TimeSettingsCommand(60*time.Second, 30*time.Second, 5); err != nil {
		t.Fatalf("TimeSettingsCommand: %v", err)
	}
}

func display(s *Session, c model.Color) string {
	return s.Status().Players[c].Display
}

func TestSwitch_AlternatesAndCharges(t *testing.T) {
	s, fc := newTestSession(t)

	if got := s.Switch(); got != model.Black {
		t.Fatalf("first switch started %s", got)
	}
	fc.Advance(5 * time.Second)
	if got := s.Switch(); got != model.White {
		t.Fatalf("second switch started %s", got)
	}
	fc.Advance(2 * time.Second)

	s.Do(func(c *clock.Clock) {
		if got := c.Elapsed(model.Black); got != 5*time.Second {
			t.Errorf("black elapsed = %s", got)
		}
		if got := c.Elapsed(model.White); got != 2*time.Second {
			t.Errorf("white elapsed = %s", got)
		}
	})
}

func TestPlay_ResumesHaltedMoveBeforeEndingIt(t *testing.T) {
	s, fc := newTestSession(t)
	withByoyomi(t, s)

	s.Start(model.Black)
	fc.Advance(10 * time.Second)
	s.Halt()
	fc.Advance(time.Minute)
	s.Play(model.Black)

	st := s.Status()
	if st.ToMove == nil || *st.ToMove != model.White || !st.Running {
		t.Fatalf("white should be running: %+v", st)
	}
	if got := st.Players[model.Black].Display; got != "00:50" {
		t.Fatalf("black display = %q", got)
	}
}

func TestTogglePause(t *testing.T) {
	s, fc := newTestSession(t)

	if _, err := s.TogglePause(); !errors.Is(err, clock.ErrNoActiveMove) {
		t.Fatalf("expected ErrNoActiveMove, got %v", err)
	}
	s.Switch()
	paused, err := s.TogglePause()
	if err != nil || !paused {
		t.Fatalf("pause: paused=%v err=%v", paused, err)
	}
	fc.Advance(time.Minute)
	paused, err = s.TogglePause()
	if err != nil || paused {
		t.Fatalf("resume: paused=%v err=%v", paused, err)
	}
	if got := display(s, model.Black); got != "00:00" {
		t.Fatalf("halted time was charged: %q", got)
	}
}

func TestUndo(t *testing.T) {
	s, fc := newTestSession(t)
	withByoyomi(t, s)

	s.Switch()
	fc.Advance(10 * time.Second)
	s.Switch()
	fc.Advance(3 * time.Second)

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	st := s.Status()
	if st.ToMove == nil || *st.ToMove != model.Black || !st.Paused {
		t.Fatalf("expected black to move, paused: %+v", st)
	}
	if got := st.Players[model.Black].Display; got != "00:50" {
		t.Fatalf("black display = %q", got)
	}
	if got := st.Players[model.White].Display; got != "01:00" {
		t.Fatalf("white display = %q", got)
	}

	// Before the first switch.
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st := s.Status(); st.ToMove != nil || st.Settings == "" {
		t.Fatalf("expected configured, unstarted clock: %+v", st)
	}

	// Before the time settings.
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st := s.Status(); st.Settings != "" {
		t.Fatalf("expected no time limit, got %q", st.Settings)
	}
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestHistoryLimit(t *testing.T) {
	s, _ := newTestSession(t, WithHistoryLimit(2))
	for range 5 {
		s.Switch()
	}
	if got := s.HistoryLen(); got != 2 {
		t.Fatalf("HistoryLen = %d", got)
	}

	off, _ := newTestSession(t, WithHistoryLimit(0))
	off.Switch()
	if err := off.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestTimeSettingsCommand(t *testing.T) {
	cases := []struct {
		name     string
		main     time.Duration
		byoyomi  time.Duration
		stones   int
		settings string
	}{
		{"canadian", 10 * time.Minute, 30 * time.Second, 5, "10:00 + 00:30/5 canadian"},
		{"absolute", 5 * time.Minute, 0, 0, "05:00 plain"},
		{"no stones", 5 * time.Minute, 30 * time.Second, 0, "05:00 plain"},
		{"no limit", 0, 0, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			if err := s.TimeSettingsCommand(tc.main, tc.byoyomi, tc.stones); err != nil {
				t.Fatalf("TimeSettingsCommand: %v", err)
			}
			if got := s.Status().Settings; got != tc.settings {
				t.Fatalf("settings = %q, want %q", got, tc.settings)
			}
		})
	}

	s, _ := newTestSession(t)
	if err := s.TimeSettingsCommand(-time.Second, 0, 0); err == nil {
		t.Fatal("expected error for negative main time")
	}
}

func TestTimeLeftCommand(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.TimeLeftCommand(model.Black, 10, 0); !errors.Is(err, clock.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if got := s.HistoryLen(); got != 0 {
		t.Fatalf("failed command recorded history: %d", got)
	}

	withByoyomi(t, s)
	if err := s.TimeLeftCommand(model.White, 20, 3); err != nil {
		t.Fatalf("TimeLeftCommand overtime: %v", err)
	}
	if err := s.TimeLeftCommand(model.Black, 45, 0); err != nil {
		t.Fatalf("TimeLeftCommand main: %v", err)
	}
	st := s.Status()
	if p := st.Players[model.White]; p.Display != "00:20/3" || !p.InOvertime {
		t.Fatalf("white = %+v", p)
	}
	if p := st.Players[model.Black]; p.Display != "00:45" || p.InOvertime {
		t.Fatalf("black = %+v", p)
	}
	if err := s.TimeLeftCommand(model.Black, 10, -1); err == nil {
		t.Fatal("expected error for negative stones")
	}
}

func TestTimeLeftCommand_RejectedWithoutHistory(t *testing.T) {
	s, _ := newTestSession(t, WithHistoryLimit(0))
	if err := s.TimeSettingsCommand(time.Minute, 0, 0); err != nil {
		t.Fatalf("TimeSettingsCommand: %v", err)
	}
	if err := s.TimeLeftCommand(model.Black, 10, 5); !errors.Is(err, clock.ErrOvertimeDisabled) {
		t.Fatalf("expected ErrOvertimeDisabled, got %v", err)
	}
	if err := s.TimeLeftCommand(model.Black, 10, 0); err != nil {
		t.Fatalf("TimeLeftCommand main: %v", err)
	}
	if got := s.HistoryLen(); got != 0 {
		t.Fatalf("history with undo disabled: %d", got)
	}
}

func TestTimeLeftCommand_RejectedKeepsFullHistory(t *testing.T) {
	s, _ := newTestSession(t, WithHistoryLimit(2))
	if err := s.TimeSettingsCommand(time.Minute, 0, 0); err != nil {
		t.Fatalf("TimeSettingsCommand: %v", err)
	}
	if err := s.TimeLeftCommand(model.Black, 30, 0); err != nil {
		t.Fatalf("TimeLeftCommand: %v", err)
	}
	if err := s.TimeLeftCommand(model.Black, 10, 5); !errors.Is(err, clock.ErrOvertimeDisabled) {
		t.Fatalf("expected ErrOvertimeDisabled, got %v", err)
	}
	if got := s.HistoryLen(); got != 2 {
		t.Fatalf("history = %d, want 2", got)
	}
	for i := 0; i < 2; i++ {
		if err := s.Undo(); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}
	if got := s.Status().Settings; got != "" {
		t.Fatalf("oldest entry lost, settings after undo = %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	s, fc := newTestSession(t, WithStore(st))
	withByoyomi(t, s)

	s.Switch()
	fc.Advance(70 * time.Second)
	s.Switch()
	fc.Advance(4 * time.Second)
	want := s.Status()

	id, err := s.Save(ctx, "game", false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Save(ctx, "game", false); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	s.Reset()
	if err := s.Load(ctx, "game"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.Status()
	for _, c := range model.Colors {
		if got.Players[c].Display != want.Players[c].Display {
			t.Errorf("%s: display %q, want %q", c, got.Players[c].Display, want.Players[c].Display)
		}
		if got.Players[c].InOvertime != want.Players[c].InOvertime {
			t.Errorf("%s: overtime mismatch", c)
		}
	}
	if got.ToMove == nil || *got.ToMove != model.White || !got.Paused {
		t.Fatalf("expected white to move, paused: %+v", got)
	}
	if got.Settings != want.Settings {
		t.Fatalf("settings %q, want %q", got.Settings, want.Settings)
	}

	id2, err := s.Save(ctx, "game", true)
	if err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if id2 == id {
		t.Fatalf("overwrite kept id %d", id)
	}

	if err := s.Load(ctx, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndLoad_CountUp(t *testing.T) {
	ctx := context.Background()
	s, fc := newTestSession(t, WithStore(newTestStore(t)))

	s.Switch()
	fc.Advance(42 * time.Second)
	if _, err := s.Save(ctx, "casual", false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Reset()
	if err := s.Load(ctx, "casual"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := display(s, model.Black); got != "00:42" {
		t.Fatalf("black display = %q", got)
	}
}

func TestSave_Errors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	if _, err := s.Save(ctx, "x", false); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
	if err := s.Load(ctx, "x"); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}

	withStore, _ := newTestSession(t, WithStore(newTestStore(t)))
	if _, err := withStore.Save(ctx, "  ", false); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestStatusString(t *testing.T) {
	s, fc := newTestSession(t)
	withByoyomi(t, s)
	s.Switch()
	fc.Advance(75 * time.Second)
	s.Switch()

	want := "B 00:15/5 | W 01:00 [white] (01:00 + 00:30/5 canadian)"
	if got := s.Status().String(); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}

func TestSnapshotStatus(t *testing.T) {
	s, fc := newTestSession(t)
	withByoyomi(t, s)
	s.Switch()
	fc.Advance(15 * time.Second)
	snap := s.Capture("x")

	st, err := SnapshotStatus(&snap)
	if err != nil {
		t.Fatalf("SnapshotStatus: %v", err)
	}
	if got := st.Players[model.Black].Display; got != "00:45" {
		t.Fatalf("black display = %q", got)
	}
	if !st.Paused {
		t.Fatal("restored snapshot should be paused")
	}
}
