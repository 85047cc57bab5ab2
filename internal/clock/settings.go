// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"fmt"
	"time"

	"github.com/toeirei/goclock/internal/model"
)

// SettingsParams holds the raw values for NewTimeSettings.
type SettingsParams struct {
	MainTime       time.Duration
	UseOvertime    bool
	OvertimePeriod time.Duration
	OvertimeMoves  int
	// Variant defaults to CanadianOvertime when UseOvertime is set and to
	// Plain otherwise.
	Variant RuleVariant
}

// TimeSettings is the immutable time control configuration of a game.
// Values are only obtainable through NewTimeSettings and are therefore
// always valid.
type TimeSettings struct {
	mainTime       time.Duration
	useOvertime    bool
	overtimePeriod time.Duration
	overtimeMoves  int
	variant        RuleVariant
}

// NewTimeSettings validates p and returns the settings. A main time of zero
// is accepted; with overtime enabled both players then start in overtime.
func NewTimeSettings(p SettingsParams) (*TimeSettings, error) {
	if p.MainTime < 0 {
		return nil, configErr(ErrInvalidMainTime, fmt.Sprintf("main time %s is negative", p.MainTime))
	}
	if p.UseOvertime {
		if p.OvertimePeriod <= 0 {
			return nil, configErr(ErrInvalidOvertime, "overtime period must be positive")
		}
		if p.OvertimeMoves <= 0 {
			return nil, configErr(ErrInvalidOvertime, "overtime moves must be positive")
		}
	}
	s := &TimeSettings{
		mainTime:       p.MainTime,
		useOvertime:    p.UseOvertime,
		overtimePeriod: p.OvertimePeriod,
		overtimeMoves:  p.OvertimeMoves,
		variant:        p.Variant,
	}
	if s.variant == nil {
		if p.UseOvertime {
			s.variant = CanadianOvertime{}
		} else {
			s.variant = Plain{}
		}
	}
	if err := s.variant.validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewByoyomiSettings is a shorthand for Canadian overtime settings.
func NewByoyomiSettings(mainTime, period time.Duration, moves int) (*TimeSettings, error) {
	return NewTimeSettings(SettingsParams{
		MainTime:       mainTime,
		UseOvertime:    true,
		OvertimePeriod: period,
		OvertimeMoves:  moves,
		Variant:        CanadianOvertime{},
	})
}

func (s *TimeSettings) MainTime() time.Duration       { return s.mainTime }
func (s *TimeSettings) UseOvertime() bool             { return s.useOvertime }
func (s *TimeSettings) OvertimePeriod() time.Duration { return s.overtimePeriod }
func (s *TimeSettings) OvertimeMoves() int            { return s.overtimeMoves }
func (s *TimeSettings) Variant() RuleVariant          { return s.variant }

// String returns a short human readable description such as
// "10:00 + 00:30/5 canadian".
func (s *TimeSettings) String() string {
	return s.variant.describe(s)
}

// Record flattens the settings for persistence.
func (s *TimeSettings) Record() model.SettingsRecord {
	r := model.SettingsRecord{
		MainTime:       s.mainTime,
		UseOvertime:    s.useOvertime,
		OvertimePeriod: s.overtimePeriod,
		OvertimeMoves:  s.overtimeMoves,
		Variant:        s.variant.Name(),
	}
	switch v := s.variant.(type) {
	case FischerIncrement:
		r.VariantParam = v.Increment.Milliseconds()
	case ChanceCountdown:
		r.VariantParam = int64(v.MaxChances)
	}
	return r
}

// SettingsFromRecord rebuilds validated settings from their persisted form.
func SettingsFromRecord(r model.SettingsRecord) (*TimeSettings, error) {
	v, err := ParseVariant(r.Variant, r.VariantParam)
	if err != nil {
		return nil, err
	}
	return NewTimeSettings(SettingsParams{
		MainTime:       r.MainTime,
		UseOvertime:    r.UseOvertime,
		OvertimePeriod: r.OvertimePeriod,
		OvertimeMoves:  r.OvertimeMoves,
		Variant:        v,
	})
}
