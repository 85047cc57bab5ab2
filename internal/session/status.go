// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/db"
	"github.com/toeirei/goclock/internal/model"
)

// PlayerStatus is what a clock face shows for one color.
type PlayerStatus struct {
	Color      model.Color
	Display    string
	InOvertime bool
	Lost       bool
	ToMove     bool
}

// Status is a consistent read of the whole clock.
type Status struct {
	// Settings describes the time control, empty without a time limit.
	Settings    string
	Running     bool
	Paused      bool
	ToMove      *model.Color
	MoveElapsed time.Duration
	Players     [2]PlayerStatus
}

// Status reads the clock.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return statusOf(s.clock)
}

func statusOf(c *clock.Clock) Status {
	st := Status{
		Running:     c.IsRunning(),
		MoveElapsed: c.MoveElapsed(),
	}
	if settings := c.Settings(); settings != nil {
		st.Settings = settings.String()
	}
	to, ok := c.ToMove()
	if ok {
		st.ToMove = &to
		st.Paused = !st.Running
	}
	for _, col := range model.Colors {
		ps := PlayerStatus{
			Color:   col,
			Display: c.TimeString(col),
			Lost:    c.LostOnTime(col),
			ToMove:  ok && to == col,
		}
		if in, err := c.IsInByoyomi(col); err == nil {
			ps.InOvertime = in
		}
		st.Players[col] = ps
	}
	return st
}

// SnapshotStatus renders a stored snapshot the way Status renders a live
// clock, using a throwaway clock.
func SnapshotStatus(snap *model.ClockSnapshot) (Status, error) {
	s := New(clock.New(), WithHistoryLimit(0))
	if err := s.Restore(snap); err != nil {
		return Status{}, err
	}
	return s.Status(), nil
}

// String renders a single line such as
// "B 09:58 | W 00:30/5 [white] (10:00 + 00:30/5 canadian)".
func (st Status) String() string {
	var b strings.Builder
	for i, p := range st.Players {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%s %s", p.Color.Short(), p.Display)
		if p.Lost {
			b.WriteString(" !")
		}
	}
	if st.ToMove != nil {
		fmt.Fprintf(&b, " [%s", st.ToMove)
		if st.Paused {
			b.WriteString(" paused")
		}
		b.WriteString("]")
	}
	if st.Settings != "" {
		fmt.Fprintf(&b, " (%s)", st.Settings)
	}
	return b.String()
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}
