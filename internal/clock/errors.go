// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package clock

import "errors"

// Configuration errors returned (wrapped in *ConfigError) by NewTimeSettings.
var (
	ErrInvalidMainTime     = errors.New("invalid main time")
	ErrInvalidOvertime     = errors.New("invalid overtime settings")
	ErrInvalidVariantParam = errors.New("invalid time control parameter")
	ErrUnknownVariant      = errors.New("unknown time control")
)

// Query and override errors returned by Clock.
var (
	ErrNotConfigured    = errors.New("clock has no time settings")
	ErrNotInOvertime    = errors.New("color is not in overtime")
	ErrWrongVariant     = errors.New("operation not supported by time control")
	ErrOvertimeDisabled = errors.New("time settings do not use overtime")
	ErrNoActiveMove     = errors.New("no move in progress")
)

// ConfigError describes why a set of time settings was rejected. It wraps
// one of the ErrInvalid* sentinels so callers can use errors.Is.
type ConfigError struct {
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(err error, detail string) error {
	return &ConfigError{Err: err, Detail: detail}
}
