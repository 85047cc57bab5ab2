// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// InvalidTime is returned by ParseTimeString together with false.
const InvalidTime time.Duration = -1

// FormatSeconds renders seconds as [-][H:]MM:SS. The hour field is only
// present when non-zero.
func FormatSeconds(seconds int64) string {
	var b strings.Builder
	if seconds < 0 {
		b.WriteByte('-')
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := seconds % 3600 / 60
	seconds %= 60
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10))
		b.WriteByte(':')
	}
	if minutes < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(minutes, 10))
	b.WriteByte(':')
	if seconds < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(seconds, 10))
	return b.String()
}

// FormatTimeLeft renders a clock display value. Fractional seconds are
// truncated and negative values are shown as zero. If movesLeft is positive
// "/<movesLeft>" is appended; zero appends "/X" (a period ran out before any
// move was recorded); negative values append nothing.
func FormatTimeLeft(left time.Duration, movesLeft int) string {
	if left < 0 {
		left = 0
	}
	s := FormatSeconds(int64(left / time.Second))
	switch {
	case movesLeft > 0:
		return s + "/" + strconv.Itoa(movesLeft)
	case movesLeft == 0:
		return s + "/X"
	}
	return s
}

// ParseTimeString parses [[H:]MM:]SS. Minutes and seconds must be within
// [0,60]. On any error it returns InvalidTime and false; callers must check
// the flag before using the value.
func ParseTimeString(s string) (time.Duration, bool) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) == 0 || len(fields) > 3 {
		return InvalidTime, false
	}
	values := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil || n < 0 {
			return InvalidTime, false
		}
		values[i] = n
	}
	var hours, minutes, seconds int64
	switch len(values) {
	case 3:
		hours, minutes, seconds = values[0], values[1], values[2]
	case 2:
		minutes, seconds = values[0], values[1]
	default:
		seconds = values[0]
	}
	if minutes > 60 || seconds > 60 {
		return InvalidTime, false
	}
	if hours > math.MaxInt64/int64(time.Hour)-1 {
		return InvalidTime, false
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, true
}
