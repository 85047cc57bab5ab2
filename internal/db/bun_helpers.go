// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/uptrace/bun"
)

// rawQuerier is satisfied by *bun.DB and bun.Tx.
type rawQuerier interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

// snapshotIDByName reads the id of a named snapshot. It serves dialects
// that do not return generated ids on insert.
func snapshotIDByName(ctx context.Context, q rawQuerier, name string) (int64, error) {
	var id int64
	err := q.NewRaw("SELECT id FROM clock_snapshots WHERE name = ?", name).Scan(ctx, &id)
	return id, err
}

// deleteRecords removes the per-color records of a snapshot and reports
// how many rows went away. SQLite only cascades with foreign keys enabled,
// so the records are always deleted explicitly.
func deleteRecords(ctx context.Context, q rawQuerier, snapshotID int64) (int64, error) {
	res, err := q.NewRaw("DELETE FROM clock_records WHERE snapshot_id = ?", snapshotID).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
