// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures shared between the clock,
// the snapshot store and the user interfaces.
package model // import "github.com/toeirei/goclock/internal/model"

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Color identifies one of the two players.
type Color int

const (
	Black Color = iota
	White
)

// Colors lists both players in move order.
var Colors = [2]Color{Black, White}

// ErrInvalidColor is returned by ParseColor for anything but black or white.
var ErrInvalidColor = errors.New("invalid color")

// Opponent returns the other player.
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// Valid reports whether c is Black or White.
func (c Color) Valid() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// Short returns the single-letter form used by game records ("B" or "W").
func (c Color) Short() string {
	if c == White {
		return "W"
	}
	return "B"
}

// ParseColor accepts "b", "black", "w" and "white" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	}
	return Black, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// RecordSnapshot is the persisted form of one player's clock. It carries
// exactly the values the clock reports through its query API so that a
// restore goes through the same administrative override used by protocol
// commands.
type RecordSnapshot struct {
	TimeLeft   time.Duration `json:"time_left"`   // Remaining main, period, bank or countdown time.
	MovesLeft  int           `json:"moves_left"`  // Moves (or chances) left in overtime, -1 outside overtime.
	InOvertime bool          `json:"in_overtime"`
	Lost       bool          `json:"lost"`
}

// SettingsRecord is a flat copy of the time settings in effect when a
// snapshot was taken.
type SettingsRecord struct {
	MainTime       time.Duration `json:"main_time"`
	UseOvertime    bool          `json:"use_overtime"`
	OvertimePeriod time.Duration `json:"overtime_period"`
	OvertimeMoves  int           `json:"overtime_moves"`
	Variant        string        `json:"variant"`       // plain, canadian, fischer or chances
	VariantParam   int64         `json:"variant_param"` // increment in ms for fischer, max chances for chances
}

// ClockSnapshot is a named, saved game clock position.
type ClockSnapshot struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	// Settings is nil for an unconfigured (count-up) clock.
	Settings *SettingsRecord `json:"settings,omitempty"`
	// ToMove is nil when no move was in progress.
	ToMove  *Color            `json:"to_move,omitempty"`
	Records [2]RecordSnapshot `json:"records"`
}

// Record returns the snapshot for c.
func (s *ClockSnapshot) Record(c Color) RecordSnapshot {
	return s.Records[c]
}

// String returns a one-line summary of the snapshot.
func (s ClockSnapshot) String() string {
	toMove := "-"
	if s.ToMove != nil {
		toMove = s.ToMove.String()
	}
	return fmt.Sprintf("%s (to move: %s)", s.Name, toMove)
}
