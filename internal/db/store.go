// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/goclock/internal/model"
)

// Store persists named clock snapshots. All backends share one bun-based
// implementation; only the dialect differs.
type Store interface {
	// SaveSnapshot inserts s and returns its new ID. A name that is already
	// taken yields ErrDuplicate.
	SaveSnapshot(ctx context.Context, s *model.ClockSnapshot) (int64, error)
	GetSnapshot(ctx context.Context, id int64) (*model.ClockSnapshot, error)
	GetSnapshotByName(ctx context.Context, name string) (*model.ClockSnapshot, error)
	// ListSnapshots returns all snapshots, oldest first.
	ListSnapshots(ctx context.Context) ([]model.ClockSnapshot, error)
	DeleteSnapshot(ctx context.Context, id int64) error
	Close() error
}
