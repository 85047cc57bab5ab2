// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/goclock/internal/model"
	"github.com/uptrace/bun"
)

// SnapshotModel is the Bun mapping of clock_snapshots.
type SnapshotModel struct {
	bun.BaseModel    `bun:"table:clock_snapshots,alias:s"`
	ID               int64          `bun:"id,pk,autoincrement"`
	Name             string         `bun:"name"`
	CreatedAt        time.Time      `bun:"created_at"`
	HasSettings      bool           `bun:"has_settings"`
	MainTimeMs       int64          `bun:"main_time_ms"`
	UseOvertime      bool           `bun:"use_overtime"`
	OvertimePeriodMs int64          `bun:"overtime_period_ms"`
	OvertimeMoves    int            `bun:"overtime_moves"`
	Variant          string         `bun:"variant"`
	VariantParam     int64          `bun:"variant_param"`
	ToMove           int            `bun:"to_move"`
	Records          []*RecordModel `bun:"rel:has-many,join:id=snapshot_id"`
}

// RecordModel is the Bun mapping of clock_records, one row per color.
type RecordModel struct {
	bun.BaseModel `bun:"table:clock_records,alias:r"`
	ID            int64 `bun:"id,pk,autoincrement"`
	SnapshotID    int64 `bun:"snapshot_id"`
	Color         int   `bun:"color"`
	TimeLeftMs    int64 `bun:"time_left_ms"`
	MovesLeft     int   `bun:"moves_left"`
	InOvertime    bool  `bun:"in_overtime"`
	Lost          bool  `bun:"lost"`
}

func snapshotToModel(s *model.ClockSnapshot) (SnapshotModel, []RecordModel) {
	m := SnapshotModel{
		Name:      s.Name,
		CreatedAt: s.CreatedAt.UTC(),
		ToMove:    -1,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if st := s.Settings; st != nil {
		m.HasSettings = true
		m.MainTimeMs = st.MainTime.Milliseconds()
		m.UseOvertime = st.UseOvertime
		m.OvertimePeriodMs = st.OvertimePeriod.Milliseconds()
		m.OvertimeMoves = st.OvertimeMoves
		m.Variant = st.Variant
		m.VariantParam = st.VariantParam
	}
	if s.ToMove != nil {
		m.ToMove = int(*s.ToMove)
	}
	recs := make([]RecordModel, 0, len(model.Colors))
	for _, c := range model.Colors {
		r := s.Records[c]
		recs = append(recs, RecordModel{
			Color:      int(c),
			TimeLeftMs: r.TimeLeft.Milliseconds(),
			MovesLeft:  r.MovesLeft,
			InOvertime: r.InOvertime,
			Lost:       r.Lost,
		})
	}
	return m, recs
}

func snapshotFromModel(m SnapshotModel) model.ClockSnapshot {
	s := model.ClockSnapshot{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
	if m.HasSettings {
		s.Settings = &model.SettingsRecord{
			MainTime:       time.Duration(m.MainTimeMs) * time.Millisecond,
			UseOvertime:    m.UseOvertime,
			OvertimePeriod: time.Duration(m.OvertimePeriodMs) * time.Millisecond,
			OvertimeMoves:  m.OvertimeMoves,
			Variant:        m.Variant,
			VariantParam:   m.VariantParam,
		}
	}
	if c := model.Color(m.ToMove); m.ToMove >= 0 && c.Valid() {
		s.ToMove = &c
	}
	for _, c := range model.Colors {
		s.Records[c] = model.RecordSnapshot{MovesLeft: -1}
	}
	for _, r := range m.Records {
		c := model.Color(r.Color)
		if !c.Valid() {
			continue
		}
		s.Records[c] = model.RecordSnapshot{
			TimeLeft:   time.Duration(r.TimeLeftMs) * time.Millisecond,
			MovesLeft:  r.MovesLeft,
			InOvertime: r.InOvertime,
			Lost:       r.Lost,
		}
	}
	return s
}

// BunStore implements Store for every supported dialect.
type BunStore struct {
	bun    *bun.DB
	dbType string
}

// BunDB returns the underlying *bun.DB.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

// DBType returns the configured database type.
func (s *BunStore) DBType() string { return s.dbType }

// SaveSnapshot inserts the snapshot and both records in one transaction.
func (s *BunStore) SaveSnapshot(ctx context.Context, snap *model.ClockSnapshot) (int64, error) {
	m, recs := snapshotToModel(snap)

	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	if m.ID == 0 {
		// Dialects without RETURNING support: look the row up by its unique name.
		id, err := snapshotIDByName(ctx, tx, m.Name)
		if err != nil {
			return 0, fmt.Errorf("failed to read snapshot id: %w", err)
		}
		m.ID = id
	}
	for i := range recs {
		recs[i].SnapshotID = m.ID
	}
	if _, err := tx.NewInsert().Model(&recs).Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to insert clock records: %w", MapDBError(err))
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	dbLogf("db: saved snapshot %q as %d", m.Name, m.ID)
	return m.ID, nil
}

func (s *BunStore) getSnapshot(ctx context.Context, where string, arg any) (*model.ClockSnapshot, error) {
	var m SnapshotModel
	err := s.bun.NewSelect().
		Model(&m).
		Relation("Records", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("r.color ASC")
		}).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	snap := snapshotFromModel(m)
	return &snap, nil
}

// GetSnapshot returns the snapshot with the given ID or ErrNotFound.
func (s *BunStore) GetSnapshot(ctx context.Context, id int64) (*model.ClockSnapshot, error) {
	return s.getSnapshot(ctx, "s.id = ?", id)
}

// GetSnapshotByName returns the snapshot with the given name or ErrNotFound.
func (s *BunStore) GetSnapshotByName(ctx context.Context, name string) (*model.ClockSnapshot, error) {
	return s.getSnapshot(ctx, "s.name = ?", name)
}

// ListSnapshots returns all snapshots ordered by ID.
func (s *BunStore) ListSnapshots(ctx context.Context) ([]model.ClockSnapshot, error) {
	var ms []SnapshotModel
	err := s.bun.NewSelect().
		Model(&ms).
		Relation("Records", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("r.color ASC")
		}).
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ClockSnapshot, 0, len(ms))
	for _, m := range ms {
		out = append(out, snapshotFromModel(m))
	}
	return out, nil
}

// DeleteSnapshot removes the snapshot and its records. It returns
// ErrNotFound if no snapshot has that ID.
func (s *BunStore) DeleteSnapshot(ctx context.Context, id int64) error {
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	n, err := deleteRecords(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("failed to delete clock records: %w", err)
	}
	res, err := tx.NewDelete().Model((*SnapshotModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if deleted, err := res.RowsAffected(); err == nil && deleted == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	dbLogf("db: deleted snapshot %d with %d records", id, n)
	return nil
}

// Close closes the underlying database.
func (s *BunStore) Close() error {
	return s.bun.Close()
}
