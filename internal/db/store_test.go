// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/toeirei/goclock/internal/model"
)

func sampleSnapshot(name string) *model.ClockSnapshot {
	white := model.White
	return &model.ClockSnapshot{
		Name:      name,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Settings: &model.SettingsRecord{
			MainTime:       10 * time.Minute,
			UseOvertime:    true,
			OvertimePeriod: 30 * time.Second,
			OvertimeMoves:  5,
			Variant:        "canadian",
		},
		ToMove: &white,
		Records: [2]model.RecordSnapshot{
			{TimeLeft: 12500 * time.Millisecond, MovesLeft: 3, InOvertime: true},
			{TimeLeft: 4 * time.Minute, MovesLeft: -1},
		},
	}
}

func TestSaveAndGetSnapshot(t *testing.T) {
	WithTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		in := sampleSnapshot("game-1")
		id, err := s.SaveSnapshot(ctx, in)
		if err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		if id <= 0 {
			t.Fatalf("expected a positive id, got %d", id)
		}

		got, err := s.GetSnapshot(ctx, id)
		if err != nil {
			t.Fatalf("GetSnapshot: %v", err)
		}
		if got.Name != "game-1" || got.ID != id {
			t.Fatalf("unexpected snapshot: %+v", got)
		}
		if got.Settings == nil || *got.Settings != *in.Settings {
			t.Fatalf("settings mismatch: %+v", got.Settings)
		}
		if got.ToMove == nil || *got.ToMove != model.White {
			t.Fatalf("to move mismatch: %v", got.ToMove)
		}
		if got.Records != in.Records {
			t.Fatalf("records mismatch: %+v vs %+v", got.Records, in.Records)
		}
		if !got.CreatedAt.Equal(in.CreatedAt) {
			t.Fatalf("created_at = %v, want %v", got.CreatedAt, in.CreatedAt)
		}

		byName, err := s.GetSnapshotByName(ctx, "game-1")
		if err != nil || byName.ID != id {
			t.Fatalf("GetSnapshotByName = %v, %v", byName, err)
		}
	})
}

func TestSaveSnapshot_CountUpClock(t *testing.T) {
	WithTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		in := &model.ClockSnapshot{
			Name: "casual",
			Records: [2]model.RecordSnapshot{
				{TimeLeft: 90 * time.Second, MovesLeft: -1},
				{TimeLeft: 75 * time.Second, MovesLeft: -1},
			},
		}
		if _, err := s.SaveSnapshot(ctx, in); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		got, err := s.GetSnapshotByName(ctx, "casual")
		if err != nil {
			t.Fatalf("GetSnapshotByName: %v", err)
		}
		if got.Settings != nil || got.ToMove != nil {
			t.Fatalf("expected no settings and no mover, got %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Fatalf("created_at must default to now")
		}
		if got.Records != in.Records {
			t.Fatalf("records mismatch: %+v", got.Records)
		}
	})
}

func TestSaveSnapshot_DuplicateName(t *testing.T) {
	WithTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		if _, err := s.SaveSnapshot(ctx, sampleSnapshot("dup")); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		_, err := s.SaveSnapshot(ctx, sampleSnapshot("dup"))
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		list, err := s.ListSnapshots(ctx)
		if err != nil || len(list) != 1 {
			t.Fatalf("failed insert left rows behind: %d, %v", len(list), err)
		}
	})
}

func TestListAndDeleteSnapshots(t *testing.T) {
	WithTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		var ids []int64
		for _, n := range []string{"a", "b", "c"} {
			id, err := s.SaveSnapshot(ctx, sampleSnapshot(n))
			if err != nil {
				t.Fatalf("SaveSnapshot(%s): %v", n, err)
			}
			ids = append(ids, id)
		}

		list, err := s.ListSnapshots(ctx)
		if err != nil {
			t.Fatalf("ListSnapshots: %v", err)
		}
		if len(list) != 3 || list[0].Name != "a" || list[2].Name != "c" {
			t.Fatalf("unexpected list: %v", list)
		}
		for _, snap := range list {
			if snap.Records[model.Black].MovesLeft != 3 {
				t.Fatalf("records not loaded for %s: %+v", snap.Name, snap.Records)
			}
		}

		if err := s.DeleteSnapshot(ctx, ids[1]); err != nil {
			t.Fatalf("DeleteSnapshot: %v", err)
		}
		if _, err := s.GetSnapshot(ctx, ids[1]); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.DeleteSnapshot(ctx, ids[1]); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete: expected ErrNotFound, got %v", err)
		}
		orphans, err := s.BunDB().NewSelect().Model((*RecordModel)(nil)).Where("snapshot_id = ?", ids[1]).Count(ctx)
		if err != nil {
			t.Fatalf("count records: %v", err)
		}
		if orphans != 0 {
			t.Fatalf("%d records left for deleted snapshot", orphans)
		}
	})
}

func TestPackageHelpers(t *testing.T) {
	prev := store
	store = nil
	if IsInitialized() {
		t.Fatalf("expected IsInitialized to be false when store is nil")
	}
	if _, err := ListSnapshots(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	store = prev

	WithTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		if !IsInitialized() || DefaultStore() != Store(s) {
			t.Fatalf("package store not installed")
		}
		id, err := s.SaveSnapshot(ctx, sampleSnapshot("pkg"))
		if err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		if got, err := GetSnapshotByName(ctx, "pkg"); err != nil || got.ID != id {
			t.Fatalf("GetSnapshotByName = %v, %v", got, err)
		}
		if list, err := ListSnapshots(ctx); err != nil || len(list) != 1 {
			t.Fatalf("ListSnapshots = %v, %v", list, err)
		}
		if err := DeleteSnapshot(ctx, id); err != nil {
			t.Fatalf("DeleteSnapshot: %v", err)
		}
	})
}
