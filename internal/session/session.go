// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// package session owns a game clock on behalf of the user interfaces. A
// Session serializes access to its clock, maps protocol style commands onto
// clock operations, keeps an in-memory history for Undo and saves or loads
// named snapshots through a SnapshotStore.
package session // import "github.com/toeirei/goclock/internal/session"

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/logging"
	"github.com/toeirei/goclock/internal/model"
)

// DefaultHistoryLimit is the number of undo steps kept by default.
const DefaultHistoryLimit = 100

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNoStore       = errors.New("no snapshot store configured")
	ErrExists        = errors.New("snapshot already exists")
	ErrInvalidName   = errors.New("invalid snapshot name")
)

// SnapshotStore is the part of the snapshot database a session uses.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s *model.ClockSnapshot) (int64, error)
	GetSnapshotByName(ctx context.Context, name string) (*model.ClockSnapshot, error)
	DeleteSnapshot(ctx context.Context, id int64) error
}

// Option configures a Session.
type Option func(*Session)

// WithStore enables Save and Load.
func WithStore(st SnapshotStore) Option {
	return func(s *Session) { s.store = st }
}

// WithHistoryLimit bounds the number of undo steps. Zero disables Undo.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = max(n, 0) }
}

// WithClock sets the clock used to timestamp snapshots.
func WithClock(c clockwork.Clock) Option {
	return func(s *Session) { s.now = c }
}

// WithLogger overrides the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Session is the single owner of a clock.Clock.
type Session struct {
	mu           sync.Mutex
	clock        *clock.Clock
	store        SnapshotStore
	history      []model.ClockSnapshot
	historyLimit int
	now          clockwork.Clock
	log          *log.Logger
}

// New wraps c. The session takes over the owner role: after New the clock
// must only be used through the session.
func New(c *clock.Clock, opts ...Option) *Session {
	s := &Session{
		clock:        c,
		historyLimit: DefaultHistoryLimit,
		now:          clockwork.NewRealClock(),
		log:          logging.L,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do runs fn with exclusive access to the clock. Ticks delivered through a
// clock.Dispatcher must be executed with Do.
func (s *Session) Do(fn func(c *clock.Clock)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.clock)
}

// SetListener registers the clock listener. The listener runs while the
// session lock is held and must not call back into the session.
func (s *Session) SetListener(l clock.Listener) {
	s.Do(func(c *clock.Clock) { c.SetListener(l) })
}

// Start begins the move of color. A move already in progress is discarded.
func (s *Session) Start(color model.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push()
	s.clock.StartMove(color)
}

// Play records that color has moved: its move is charged and the opponent's
// move starts. A halted move is resumed before it is ended.
func (s *Session) Play(color model.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push()
	s.play(color)
}

func (s *Session) play(color model.Color) {
	if to, ok := s.clock.ToMove(); ok && to == color {
		if !s.clock.IsRunning() {
			_ = s.clock.Resume()
		}
		s.clock.StopMove()
	}
	s.clock.StartMove(color.Opponent())
}

// Switch ends the move in progress and starts the opponent's. Without a
// move in progress Black starts. It returns the color now to move.
func (s *Session) Switch() model.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push()
	to, ok := s.clock.ToMove()
	if !ok {
		s.clock.StartMove(model.Black)
		return model.Black
	}
	s.play(to)
	return to.Opponent()
}

// TogglePause halts a running clock or resumes a halted one. It reports
// whether the clock is paused afterwards.
func (s *Session) TogglePause() (paused bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock.IsRunning() {
		s.clock.Halt()
		return true, nil
	}
	if err := s.clock.Resume(); err != nil {
		return false, err
	}
	return false, nil
}

// Halt pauses the clock.
func (s *Session) Halt() {
	s.Do(func(c *clock.Clock) { c.Halt() })
}

// Resume continues a halted move.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Resume()
}

// Reset clears both players' times.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push()
	s.clock.Reset()
}

// SetTimeSettings installs settings and resets the clock. Nil removes the
// time limit.
func (s *Session) SetTimeSettings(settings *clock.TimeSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push()
	s.clock.SetTimeSettings(settings)
	s.clock.Reset()
}

// TimeSettingsCommand applies the arguments of a time_settings command.
// A zero byoyomi time or stone count means absolute time; no main time and
// no overtime means no time limit.
func (s *Session) TimeSettingsCommand(mainTime, byoyomi time.Duration, stones int) error {
	if mainTime < 0 || byoyomi < 0 || stones < 0 {
		return fmt.Errorf("invalid time settings %s %s %d", mainTime, byoyomi, stones)
	}
	var settings *clock.TimeSettings
	switch {
	case byoyomi > 0 && stones > 0:
		st, err := clock.NewByoyomiSettings(mainTime, byoyomi, stones)
		if err != nil {
			return err
		}
		settings = st
	case mainTime > 0:
		st, err := clock.NewTimeSettings(clock.SettingsParams{MainTime: mainTime})
		if err != nil {
			return err
		}
		settings = st
	}
	s.SetTimeSettings(settings)
	return nil
}

// TimeLeftCommand applies the arguments of a time_left command. A stone
// count of zero means main time.
func (s *Session) TimeLeftCommand(color model.Color, seconds int, stones int) error {
	if stones < 0 {
		return fmt.Errorf("invalid stone count %d", stones)
	}
	moves := -1
	if stones > 0 {
		moves = stones
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clock.IsInitialized() {
		return clock.ErrNotConfigured
	}
	if moves >= 0 && !s.clock.Settings().UseOvertime() {
		return clock.ErrOvertimeDisabled
	}
	s.push()
	return s.clock.SetTimeLeft(color, time.Duration(seconds)*time.Second, moves)
}

// Undo returns the clock to the state before the last recorded operation.
// The restored clock is halted.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return s.restore(&prev)
}

// HistoryLen returns the number of available undo steps.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// push remembers the current state for Undo. Callers hold the lock.
func (s *Session) push() {
	if s.historyLimit == 0 {
		return
	}
	s.history = append(s.history, s.capture(""))
	if over := len(s.history) - s.historyLimit; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
}

func (s *Session) capture(name string) model.ClockSnapshot {
	snap := model.ClockSnapshot{Name: name, CreatedAt: s.now.Now().UTC()}
	if st := s.clock.Settings(); st != nil {
		rec := st.Record()
		snap.Settings = &rec
	}
	if to, ok := s.clock.ToMove(); ok {
		snap.ToMove = &to
	}
	for _, c := range model.Colors {
		snap.Records[c] = s.clock.Snapshot(c)
	}
	return snap
}

// restore replaces the clock state with snap. A move in progress is
// restored halted. Callers hold the lock.
func (s *Session) restore(snap *model.ClockSnapshot) error {
	var settings *clock.TimeSettings
	if snap.Settings != nil {
		st, err := clock.SettingsFromRecord(*snap.Settings)
		if err != nil {
			return fmt.Errorf("invalid snapshot settings: %w", err)
		}
		settings = st
	}
	s.clock.SetTimeSettings(settings)
	s.clock.Reset()
	for _, c := range model.Colors {
		if err := s.clock.RestoreSnapshot(c, snap.Records[c]); err != nil {
			return fmt.Errorf("failed to restore %s: %w", c, err)
		}
	}
	if snap.ToMove != nil {
		s.clock.StartMove(*snap.ToMove)
		s.clock.Halt()
	}
	return nil
}

// Capture returns the current state as an unsaved snapshot.
func (s *Session) Capture(name string) model.ClockSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture(name)
}

// Restore replaces the clock state with snap. The previous state can be
// recovered with Undo.
func (s *Session) Restore(snap *model.ClockSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push()
	return s.restore(snap)
}

// Save stores the current state under name. An existing snapshot of that
// name is replaced only if overwrite is set.
func (s *Session) Save(ctx context.Context, name string, overwrite bool) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrInvalidName
	}
	if s.store == nil {
		return 0, ErrNoStore
	}
	snap := s.Capture(name)

	existing, err := s.store.GetSnapshotByName(ctx, name)
	switch {
	case err == nil:
		if !overwrite {
			return 0, fmt.Errorf("%w: %s", ErrExists, name)
		}
		if err := s.store.DeleteSnapshot(ctx, existing.ID); err != nil {
			return 0, fmt.Errorf("failed to replace snapshot %s: %w", name, err)
		}
	case !isNotFound(err):
		return 0, err
	}

	id, err := s.store.SaveSnapshot(ctx, &snap)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	s.log.Info("session: snapshot saved", "name", name, "id", id)
	return id, nil
}

// Load restores the snapshot stored under name.
func (s *Session) Load(ctx context.Context, name string) error {
	if s.store == nil {
		return ErrNoStore
	}
	snap, err := s.store.GetSnapshotByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}
	if err := s.Restore(snap); err != nil {
		return err
	}
	s.log.Info("session: snapshot loaded", "name", name)
	return nil
}
