// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"fmt"
	"strings"
	"time"
)

// timeRecord is the per-color state owned by a Clock.
type timeRecord struct {
	elapsed          time.Duration // time used in main time or in the current period
	inOvertime       bool
	movesLeft        int
	overtimeExceeded bool

	// Variant state.
	increments  time.Duration // fischer: sum of credited increments
	chancesLeft int           // chances: countdowns that may still expire
	lost        bool          // sticky loss flag set by live evaluation or a variant
}

// RuleVariant selects the time control regime. The set of variants is
// closed: Plain, CanadianOvertime, FischerIncrement and ChanceCountdown.
// Each variant carries its own transition functions which the Clock
// dispatches to.
type RuleVariant interface {
	// Name is the configuration name of the variant.
	Name() string

	validate(s *TimeSettings) error
	describe(s *TimeSettings) string
	reset(r *timeRecord, s *TimeSettings)
	stopMove(r *timeRecord, s *TimeSettings)
	halt(r *timeRecord, s *TimeSettings)
	// project returns the record as it would look if the move in progress
	// were evaluated now. It must not have side effects on r.
	project(r timeRecord, s *TimeSettings) timeRecord
	timeLeft(r timeRecord, s *TimeSettings) time.Duration
	// counter is the moves or chances count shown next to the time, -1 for none.
	counter(r timeRecord) int
	lost(r timeRecord, s *TimeSettings) bool
	restore(r *timeRecord, s *TimeSettings, left time.Duration, movesLeft int)
}

// ParseVariant returns the variant for a configuration name. param is the
// increment in milliseconds for "fischer" and the number of chances for
// "chances"; it is ignored otherwise.
func ParseVariant(name string, param int64) (RuleVariant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return Plain{}, nil
	case "canadian", "byoyomi":
		return CanadianOvertime{}, nil
	case "fischer", "increment":
		return FischerIncrement{Increment: time.Duration(param) * time.Millisecond}, nil
	case "chances", "countdown":
		return ChanceCountdown{MaxChances: int(param)}, nil
	}
	return nil, configErr(ErrUnknownVariant, fmt.Sprintf("%q", name))
}

func mainTimeLeft(r timeRecord, s *TimeSettings) time.Duration {
	if r.inOvertime {
		return s.overtimePeriod - r.elapsed
	}
	return s.mainTime - r.elapsed
}

// restoreMain is the common non-overtime branch of SetTimeLeft.
func restoreMain(r *timeRecord, s *TimeSettings, left time.Duration) {
	r.elapsed = s.mainTime - left
	r.inOvertime = false
	r.movesLeft = -1
	r.overtimeExceeded = false
}

// Plain counts time without any overtime. With a main time configured, a
// player whose used time exceeds it is reported as lost on time. Plain
// never enters overtime on its own; a clock that starts in overtime
// (zero main time with an overtime period) is limited by the period.
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (Plain) validate(*TimeSettings) error { return nil }

func (Plain) describe(s *TimeSettings) string {
	return FormatSeconds(int64(s.mainTime/time.Second)) + " plain"
}

func (Plain) reset(*timeRecord, *TimeSettings)    {}
func (Plain) stopMove(*timeRecord, *TimeSettings) {}
func (Plain) halt(*timeRecord, *TimeSettings)     {}

func (Plain) project(r timeRecord, _ *TimeSettings) timeRecord { return r }

func (Plain) timeLeft(r timeRecord, s *TimeSettings) time.Duration { return mainTimeLeft(r, s) }

func (Plain) counter(timeRecord) int { return -1 }

func (Plain) lost(r timeRecord, s *TimeSettings) bool {
	if r.inOvertime {
		return r.elapsed > s.overtimePeriod
	}
	return s.mainTime > 0 && r.elapsed > s.mainTime
}

func (Plain) restore(r *timeRecord, s *TimeSettings, left time.Duration, movesLeft int) {
	if movesLeft < 0 {
		restoreMain(r, s, left)
		return
	}
	r.elapsed = s.overtimePeriod - left
	r.inOvertime = true
	r.movesLeft = movesLeft
}

// CanadianOvertime requires OvertimeMoves moves to be played within each
// OvertimePeriod once the main time is used up. A period that is completed
// in time renews without loss.
type CanadianOvertime struct{}

func (CanadianOvertime) Name() string { return "canadian" }

func (CanadianOvertime) validate(s *TimeSettings) error {
	if !s.useOvertime {
		return configErr(ErrInvalidOvertime, "canadian overtime requires overtime settings")
	}
	return nil
}

func (CanadianOvertime) describe(s *TimeSettings) string {
	return fmt.Sprintf("%s + %s/%d canadian",
		FormatSeconds(int64(s.mainTime/time.Second)),
		FormatSeconds(int64(s.overtimePeriod/time.Second)),
		s.overtimeMoves)
}

func (CanadianOvertime) reset(*timeRecord, *TimeSettings) {}

func (CanadianOvertime) stopMove(r *timeRecord, s *TimeSettings) {
	if !r.inOvertime {
		if r.elapsed <= s.mainTime {
			return
		}
		// The move that crosses into overtime does not count against the period.
		r.elapsed -= s.mainTime
		r.inOvertime = true
		r.movesLeft = s.overtimeMoves
		if r.elapsed > s.overtimePeriod {
			r.overtimeExceeded = true
		}
		return
	}
	if r.elapsed > s.overtimePeriod {
		r.overtimeExceeded = true
	}
	r.movesLeft--
	if r.movesLeft <= 0 {
		r.elapsed = 0
		r.movesLeft = s.overtimeMoves
	}
}

func (CanadianOvertime) halt(r *timeRecord, s *TimeSettings) {
	if r.inOvertime && r.elapsed > s.overtimePeriod {
		r.overtimeExceeded = true
	}
}

func (CanadianOvertime) project(r timeRecord, s *TimeSettings) timeRecord {
	if !r.inOvertime && r.elapsed > s.mainTime {
		r.elapsed -= s.mainTime
		r.inOvertime = true
		r.movesLeft = s.overtimeMoves
	}
	if r.inOvertime && r.elapsed > s.overtimePeriod {
		r.overtimeExceeded = true
	}
	return r
}

func (CanadianOvertime) timeLeft(r timeRecord, s *TimeSettings) time.Duration {
	return mainTimeLeft(r, s)
}

func (CanadianOvertime) counter(r timeRecord) int {
	if !r.inOvertime {
		return -1
	}
	return r.movesLeft
}

func (CanadianOvertime) lost(r timeRecord, _ *TimeSettings) bool { return r.overtimeExceeded }

func (CanadianOvertime) restore(r *timeRecord, s *TimeSettings, left time.Duration, movesLeft int) {
	if movesLeft < 0 {
		restoreMain(r, s, left)
		return
	}
	r.inOvertime = true
	r.elapsed = s.overtimePeriod - left
	r.movesLeft = movesLeft
	r.overtimeExceeded = left < 0
}

// FischerIncrement credits Increment to a player's bank after every
// completed move. The bank is MainTime minus the used time plus all
// credited increments; a bank at or below zero loses.
type FischerIncrement struct {
	Increment time.Duration
}

func (FischerIncrement) Name() string { return "fischer" }

func (v FischerIncrement) validate(*TimeSettings) error {
	if v.Increment <= 0 {
		return configErr(ErrInvalidVariantParam, fmt.Sprintf("fischer increment %s must be positive", v.Increment))
	}
	return nil
}

func (v FischerIncrement) describe(s *TimeSettings) string {
	return fmt.Sprintf("%s + %s fischer",
		FormatSeconds(int64(s.mainTime/time.Second)),
		FormatSeconds(int64(v.Increment/time.Second)))
}

func (FischerIncrement) bank(r timeRecord, s *TimeSettings) time.Duration {
	return s.mainTime - r.elapsed + r.increments
}

func (FischerIncrement) reset(*timeRecord, *TimeSettings) {}

// stopMove checks the flag before crediting, so a move that used up the
// whole bank is lost even though the increment would cover it.
func (v FischerIncrement) stopMove(r *timeRecord, s *TimeSettings) {
	if v.bank(*r, s) <= 0 {
		r.lost = true
	}
	r.increments += v.Increment
}

func (v FischerIncrement) halt(r *timeRecord, s *TimeSettings) {
	if v.bank(*r, s) <= 0 {
		r.lost = true
	}
}

func (v FischerIncrement) project(r timeRecord, s *TimeSettings) timeRecord {
	if v.bank(r, s) <= 0 {
		r.lost = true
	}
	return r
}

func (v FischerIncrement) timeLeft(r timeRecord, s *TimeSettings) time.Duration {
	return v.bank(r, s)
}

func (FischerIncrement) counter(timeRecord) int { return -1 }

func (FischerIncrement) lost(r timeRecord, _ *TimeSettings) bool { return r.lost }

// restore keeps the overtime flag of a clock that started in overtime; the
// bank alone decides the time left.
func (FischerIncrement) restore(r *timeRecord, s *TimeSettings, left time.Duration, movesLeft int) {
	r.elapsed = s.mainTime + r.increments - left
	r.inOvertime = movesLeft >= 0
	r.movesLeft = movesLeft
	r.lost = left <= 0
}

// ChanceCountdown gives each move a fresh countdown of OvertimePeriod once
// the main time is used up. Every countdown that expires costs one of
// MaxChances; the player whose last chance expires is lost on time.
type ChanceCountdown struct {
	MaxChances int
}

func (ChanceCountdown) Name() string { return "chances" }

func (v ChanceCountdown) validate(s *TimeSettings) error {
	if v.MaxChances <= 0 {
		return configErr(ErrInvalidVariantParam, fmt.Sprintf("chance count %d must be positive", v.MaxChances))
	}
	if !s.useOvertime {
		return configErr(ErrInvalidOvertime, "chance countdown requires an overtime period")
	}
	return nil
}

func (v ChanceCountdown) describe(s *TimeSettings) string {
	return fmt.Sprintf("%s + %s x%d chances",
		FormatSeconds(int64(s.mainTime/time.Second)),
		FormatSeconds(int64(s.overtimePeriod/time.Second)),
		v.MaxChances)
}

// expired returns how many whole countdowns of period fit strictly below over.
func expired(over, period time.Duration) int {
	if over <= period {
		return 0
	}
	return int((over - 1) / period)
}

func (v ChanceCountdown) reset(r *timeRecord, _ *TimeSettings) {
	r.chancesLeft = v.MaxChances
}

func (ChanceCountdown) consume(r *timeRecord, s *TimeSettings) {
	n := expired(r.elapsed, s.overtimePeriod)
	if n == 0 {
		return
	}
	r.chancesLeft -= n
	r.elapsed -= time.Duration(n) * s.overtimePeriod
	if r.chancesLeft <= 0 {
		r.chancesLeft = 0
		r.lost = true
	}
}

func (v ChanceCountdown) stopMove(r *timeRecord, s *TimeSettings) {
	if !r.inOvertime {
		if r.elapsed <= s.mainTime {
			return
		}
		r.elapsed -= s.mainTime
		r.inOvertime = true
	}
	v.consume(r, s)
	// The next move starts with a full countdown.
	r.elapsed = 0
}

func (ChanceCountdown) halt(*timeRecord, *TimeSettings) {}

func (v ChanceCountdown) project(r timeRecord, s *TimeSettings) timeRecord {
	if !r.inOvertime && r.elapsed > s.mainTime {
		r.elapsed -= s.mainTime
		r.inOvertime = true
	}
	if r.inOvertime {
		v.consume(&r, s)
	}
	return r
}

func (ChanceCountdown) timeLeft(r timeRecord, s *TimeSettings) time.Duration {
	return mainTimeLeft(r, s)
}

func (ChanceCountdown) counter(r timeRecord) int {
	if !r.inOvertime {
		return -1
	}
	return r.chancesLeft
}

func (ChanceCountdown) lost(r timeRecord, _ *TimeSettings) bool { return r.lost }

// restore interprets movesLeft as the number of chances left.
func (ChanceCountdown) restore(r *timeRecord, s *TimeSettings, left time.Duration, movesLeft int) {
	if movesLeft < 0 {
		restoreMain(r, s, left)
		return
	}
	r.inOvertime = true
	r.elapsed = s.overtimePeriod - left
	r.movesLeft = movesLeft
	r.chancesLeft = movesLeft
	r.lost = left < 0 || movesLeft == 0
}
