// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// TimeSource provides the current instant. clockwork.Clock satisfies it;
// tests use clockwork.NewFakeClock to advance time without sleeping.
type TimeSource interface {
	Now() time.Time
}

// SystemTimeSource returns the real wall and monotonic clock.
func SystemTimeSource() clockwork.Clock { return clockwork.NewRealClock() }
