// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/goclock/internal/model"
)

// ArchiveVersion is the format version written by WriteArchive.
const ArchiveVersion = 1

// ErrArchiveVersion is returned for archives written by a newer release.
var ErrArchiveVersion = errors.New("unsupported archive version")

// Archive is the content of a snapshot export file.
type Archive struct {
	Version    int                   `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Snapshots  []model.ClockSnapshot `json:"snapshots"`
}

// WriteArchive writes snaps as zstd-compressed JSON.
func WriteArchive(w io.Writer, snaps []model.ClockSnapshot) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Archive{Version: ArchiveVersion, ExportedAt: time.Now().UTC(), Snapshots: snaps}); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	return zw.Close()
}

// ReadArchive decodes an archive written by WriteArchive.
func ReadArchive(r io.Reader) (*Archive, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var a Archive
	if err := json.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if a.Version > ArchiveVersion {
		return nil, fmt.Errorf("%w: %d", ErrArchiveVersion, a.Version)
	}
	return &a, nil
}

// ExportSnapshots writes every snapshot of st to w and returns how many
// were written.
func ExportSnapshots(ctx context.Context, st Store, w io.Writer) (int, error) {
	snaps, err := st.ListSnapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("list snapshots: %w", err)
	}
	if err := WriteArchive(w, snaps); err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// ImportSnapshots reads an archive from r and saves its snapshots into st.
// Snapshots whose name already exists are skipped.
func ImportSnapshots(ctx context.Context, st Store, r io.Reader) (imported, skipped int, err error) {
	a, err := ReadArchive(r)
	if err != nil {
		return 0, 0, err
	}
	for i := range a.Snapshots {
		snap := a.Snapshots[i]
		snap.ID = 0
		if _, err := st.SaveSnapshot(ctx, &snap); err != nil {
			if errors.Is(err, ErrDuplicate) {
				dbLogf("db: import skipped existing snapshot %q", snap.Name)
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("import snapshot %q: %w", snap.Name, err)
		}
		imported++
	}
	return imported, skipped, nil
}
