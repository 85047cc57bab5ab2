// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrDuplicate is returned when a snapshot with the same name already exists.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when a snapshot does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotInitialized is returned by the package helpers before InitDB.
	ErrNotInitialized = errors.New("database not initialized")
)

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors. The mapping is string based
// so this file does not depend on any SQL driver package.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
