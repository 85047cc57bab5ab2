// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// package clock implements the time control of a two-player game.
//
// A Clock without time settings counts upwards. Once settings are installed
// with SetTimeSettings and the clock is Reset, the configured RuleVariant
// decides how main time, overtime periods, increments or chances are
// consumed. The clock never ends a game; it only reports LostOnTime.
//
// All mutating methods must be called from a single owner goroutine. While
// the clock runs and a listener is registered, a Notifier ticks once per
// second; ticks are handed to the owner through a Dispatcher before the
// listener is called.
package clock // import "github.com/toeirei/goclock/internal/clock"

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/toeirei/goclock/internal/logging"
	"github.com/toeirei/goclock/internal/model"
)

// Listener is notified after every state changing operation and on every
// tick while the clock runs. It re-queries the clock for the values it
// displays.
type Listener interface {
	ClockChanged()
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func()

func (f ListenerFunc) ClockChanged() { f() }

// Option configures a Clock.
type Option func(*options)

type options struct {
	source   TimeSource
	tickers  TickerSource
	dispatch Dispatcher
	logger   *log.Logger
}

// WithClock uses c both for reading the time and for ticking.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.source = c
		o.tickers = c
	}
}

// WithDispatcher sets how ticks reach the owner goroutine.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) { o.dispatch = d }
}

// WithLogger sets the logger for transition traces.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Clock tracks the time used by Black and White.
type Clock struct {
	source   TimeSource
	notifier *Notifier
	queue    *Queue
	log      *log.Logger
	listener Listener

	settings *TimeSettings
	records  [2]timeRecord

	toMove      model.Color
	hasToMove   bool
	running     bool
	start       time.Time
	moveElapsed time.Duration // time of the move in progress, across halts
}

// New returns a reset clock without time settings. Unless WithDispatcher is
// given, ticks are delivered through a Queue available from Queue().
func New(opts ...Option) *Clock {
	rc := SystemTimeSource()
	o := options{source: rc, tickers: rc}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Clock{source: o.source, log: o.logger}
	if c.log == nil {
		c.log = logging.L
	}
	if o.dispatch == nil {
		c.queue = NewQueue(4)
		o.dispatch = c.queue
	}
	c.notifier = NewNotifier(o.tickers, DefaultTickInterval, o.dispatch)
	c.Reset()
	return c
}

// Queue returns the default tick queue, or nil if a custom dispatcher was
// configured. The owner must drain it for ticks to reach the listener.
func (c *Clock) Queue() *Queue { return c.queue }

// SetListener registers l, replacing any previous listener. Passing nil
// removes the listener and stops ticking.
func (c *Clock) SetListener(l Listener) {
	c.listener = l
	if l == nil {
		c.notifier.Stop()
		return
	}
	if c.running {
		c.notifier.Start(c.onTick)
	}
}

// SetTimeSettings replaces the settings. Records are not rewritten; the new
// settings apply from the next Reset or overtime transition on. A nil value
// returns the clock to counting upwards.
func (c *Clock) SetTimeSettings(s *TimeSettings) {
	c.settings = s
	if s != nil {
		c.log.Debug("clock: time settings changed", "settings", s.String())
	}
}

// Settings returns the current settings, nil if none.
func (c *Clock) Settings() *TimeSettings { return c.settings }

// IsInitialized reports whether time settings are installed.
func (c *Clock) IsInitialized() bool { return c.settings != nil }

// IsRunning reports whether a move is currently being timed.
func (c *Clock) IsRunning() bool { return c.running }

// ToMove returns the color whose move is in progress or halted. ok is false
// between StopMove and the next StartMove.
func (c *Clock) ToMove() (color model.Color, ok bool) {
	return c.toMove, c.hasToMove
}

// Reset clears both records and stops the clock. With an overtime period
// and no main time both colors start in overtime, whatever the variant.
func (c *Clock) Reset() {
	for _, col := range model.Colors {
		r := timeRecord{}
		if st := c.settings; st != nil {
			if st.useOvertime && st.mainTime == 0 {
				r.inOvertime = true
				r.movesLeft = st.overtimeMoves
			}
			st.variant.reset(&r, st)
		}
		c.records[col] = r
	}
	c.hasToMove = false
	c.running = false
	c.moveElapsed = 0
	c.notifier.Stop()
	c.notify()
}

// StartMove starts timing a move of color. If the clock is already running
// the time of the pending move is discarded.
func (c *Clock) StartMove(color model.Color) {
	if c.running {
		c.log.Warn("clock: start move while running, discarding pending time", "color", c.toMove)
	}
	c.toMove = color
	c.hasToMove = true
	c.running = true
	c.start = c.source.Now()
	c.moveElapsed = 0
	if c.listener != nil {
		c.notifier.Start(c.onTick)
	}
	c.log.Debug("clock: start move", "color", color)
}

// segment adds the time since start to the mover's record.
func (c *Clock) segment() *timeRecord {
	now := c.source.Now()
	d := now.Sub(c.start)
	if d < 0 {
		d = 0
	}
	c.start = now
	c.moveElapsed += d
	r := &c.records[c.toMove]
	r.elapsed += d
	return r
}

// StopMove ends the move in progress, charges its time and applies the
// time control transition. It does nothing if the clock is not running.
func (c *Clock) StopMove() {
	if !c.running {
		return
	}
	r := c.segment()
	if c.settings != nil {
		c.settings.variant.stopMove(r, c.settings)
	}
	c.log.Debug("clock: stop move", "color", c.toMove, "move", c.moveElapsed, "elapsed", r.elapsed)
	c.hasToMove = false
	c.running = false
	c.moveElapsed = 0
	c.notifier.Stop()
	c.notify()
}

// Halt pauses the move in progress without ending it. Calling Halt on a
// stopped or halted clock is a no-op.
func (c *Clock) Halt() {
	if !c.running {
		return
	}
	r := c.segment()
	if c.settings != nil {
		c.settings.variant.halt(r, c.settings)
	}
	c.running = false
	c.notifier.Stop()
	c.log.Debug("clock: halt", "color", c.toMove, "elapsed", r.elapsed)
	c.notify()
}

// Resume continues a halted move. It is a no-op if the clock is running and
// returns ErrNoActiveMove if no move was halted.
func (c *Clock) Resume() error {
	if c.running {
		return nil
	}
	if !c.hasToMove {
		return ErrNoActiveMove
	}
	c.start = c.source.Now()
	c.running = true
	if c.listener != nil {
		c.notifier.Start(c.onTick)
	}
	c.log.Debug("clock: resume", "color", c.toMove)
	c.notify()
	return nil
}

// view returns the record of color including the running move, with the
// variant's pending transitions applied.
func (c *Clock) view(color model.Color) timeRecord {
	r := c.records[color]
	if c.running && c.toMove == color {
		if d := c.source.Now().Sub(c.start); d > 0 {
			r.elapsed += d
		}
	}
	if c.settings != nil {
		r = c.settings.variant.project(r, c.settings)
	}
	return r
}

// Elapsed returns the time counted for color in its current phase,
// including the move in progress.
func (c *Clock) Elapsed(color model.Color) time.Duration {
	r := c.records[color]
	if c.running && c.toMove == color {
		if d := c.source.Now().Sub(c.start); d > 0 {
			r.elapsed += d
		}
	}
	return r.elapsed
}

// MoveElapsed returns the time spent on the move in progress.
func (c *Clock) MoveElapsed() time.Duration {
	d := c.moveElapsed
	if c.running {
		if s := c.source.Now().Sub(c.start); s > 0 {
			d += s
		}
	}
	return d
}

// TimeLeft returns the remaining main time, or the remaining period time in
// overtime. Fischer clocks report the bank and chance clocks the current
// countdown. The value may be negative once the time is exceeded.
func (c *Clock) TimeLeft(color model.Color) (time.Duration, error) {
	if c.settings == nil {
		return 0, ErrNotConfigured
	}
	return c.settings.variant.timeLeft(c.view(color), c.settings), nil
}

// MovesLeft returns the moves left in the current Canadian overtime period.
func (c *Clock) MovesLeft(color model.Color) (int, error) {
	if c.settings == nil {
		return 0, ErrNotConfigured
	}
	r := c.view(color)
	if _, ok := c.settings.variant.(CanadianOvertime); !ok || !r.inOvertime {
		return 0, ErrNotInOvertime
	}
	return r.movesLeft, nil
}

// ChancesLeft returns the remaining chances of a chance countdown clock.
func (c *Clock) ChancesLeft(color model.Color) (int, error) {
	if c.settings == nil {
		return 0, ErrNotConfigured
	}
	if _, ok := c.settings.variant.(ChanceCountdown); !ok {
		return 0, ErrWrongVariant
	}
	return c.view(color).chancesLeft, nil
}

// IsInByoyomi reports whether color is in overtime.
func (c *Clock) IsInByoyomi(color model.Color) (bool, error) {
	if c.settings == nil {
		return false, ErrNotConfigured
	}
	return c.settings.useOvertime && c.view(color).inOvertime, nil
}

// LostOnTime reports whether color has run out of time under the current
// time control. The result is sticky until Reset or SetTimeLeft.
func (c *Clock) LostOnTime(color model.Color) bool {
	r := c.records[color]
	if r.lost || r.overtimeExceeded {
		return true
	}
	if c.settings == nil {
		return false
	}
	return c.settings.variant.lost(c.view(color), c.settings)
}

// TimeString returns the display value for color: the used time when the
// clock has no settings, otherwise the time left followed by the moves or
// chances counter while in overtime.
func (c *Clock) TimeString(color model.Color) string {
	r := c.view(color)
	if c.settings == nil {
		return FormatTimeLeft(r.elapsed, -1)
	}
	v := c.settings.variant
	return FormatTimeLeft(v.timeLeft(r, c.settings), v.counter(r))
}

// SetTimeLeft overrides the time left of color, e.g. when a saved position
// is loaded. movesLeft >= 0 puts the color in overtime with that many moves
// (chances for a chance countdown); -1 means main time. The clock is halted
// first and, if a move was in progress, restarted afterwards so that the
// override itself consumes no time.
func (c *Clock) SetTimeLeft(color model.Color, left time.Duration, movesLeft int) error {
	if c.settings == nil {
		return ErrNotConfigured
	}
	if movesLeft >= 0 && !c.settings.useOvertime {
		return ErrOvertimeDisabled
	}
	c.Halt()
	r := &c.records[color]
	r.lost = false
	c.settings.variant.restore(r, c.settings, left, movesLeft)
	c.log.Debug("clock: set time left", "color", color, "left", left, "moves", movesLeft)
	if c.hasToMove {
		c.StartMove(c.toMove)
	}
	c.notify()
	return nil
}

// Snapshot captures the persisted fields of color.
func (c *Clock) Snapshot(color model.Color) model.RecordSnapshot {
	s := model.RecordSnapshot{MovesLeft: -1, Lost: c.LostOnTime(color)}
	if c.settings == nil {
		s.TimeLeft = c.Elapsed(color)
		return s
	}
	r := c.view(color)
	s.TimeLeft = c.settings.variant.timeLeft(r, c.settings)
	s.InOvertime = c.settings.useOvertime && r.inOvertime
	if s.InOvertime {
		s.MovesLeft = c.settings.variant.counter(r)
	}
	return s
}

// RestoreSnapshot applies a snapshot taken with Snapshot. Without settings
// the snapshot holds the used time, which is restored as is.
func (c *Clock) RestoreSnapshot(color model.Color, s model.RecordSnapshot) error {
	if c.settings == nil {
		c.Halt()
		c.records[color] = timeRecord{elapsed: max(s.TimeLeft, 0)}
		if c.hasToMove {
			c.StartMove(c.toMove)
		}
		c.notify()
		return nil
	}
	moves := -1
	if s.InOvertime {
		moves = s.MovesLeft
		if moves < 0 {
			moves = 0
		}
	}
	return c.SetTimeLeft(color, s.TimeLeft, moves)
}

func (c *Clock) onTick() {
	if !c.running {
		return
	}
	if c.settings != nil && c.settings.variant.lost(c.view(c.toMove), c.settings) {
		r := &c.records[c.toMove]
		if !r.lost {
			r.lost = true
			c.log.Info("clock: time expired", "color", c.toMove)
		}
	}
	c.notify()
}

func (c *Clock) notify() {
	if c.listener != nil {
		c.listener.ClockChanged()
	}
}
