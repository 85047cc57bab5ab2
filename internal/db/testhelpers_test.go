// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"strings"
	"testing"
)

// WithTestStore initializes an in-memory sqlite Store for the duration of the
// provided function and restores the package-level store afterwards.
func WithTestStore(t *testing.T, fn func(s *BunStore)) {
	t.Helper()

	prevStore := store
	defer func() { store = prevStore }()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	s, ok := store.(*BunStore)
	if !ok {
		t.Fatalf("store is not *BunStore")
	}
	defer func() { _ = s.Close() }()

	fn(s)
}
