// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFlattenYAML(t *testing.T) {
	keys := map[string]struct{}{}
	flattenYAML("", map[string]any{
		"clock.to_move": "to move",
		"help":          map[string]any{"quit": "quit"},
	}, keys)
	for _, want := range []string{"clock.to_move", "help.quit"} {
		if _, ok := keys[want]; !ok {
			t.Fatalf("missing %s in %v", want, keys)
		}
	}
}

func TestLint(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "a.go"), `package pkg
func f() {
	_ = i18n.T("clock.to_move")
	_ = i18n.T("clock.undefined")
	keys := []string{"help.quit"}
}`)
	writeFile(t, filepath.Join(root, "pkg", "a_test.go"), `package pkg
func g() { _ = i18n.T("test.only") }`)
	dir := filepath.Join(root, "locales")
	writeFile(t, filepath.Join(dir, "en.yaml"), "clock.to_move: to move\nhelp.quit: quit\nclock.unused: x\n")
	writeFile(t, filepath.Join(dir, "de.yaml"), "clock.to_move: am Zug\nhelp.quit: beenden\n")

	r, err := lint(root, dir)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !reflect.DeepEqual(r.Undefined, []string{"clock.undefined"}) {
		t.Fatalf("Undefined = %v", r.Undefined)
	}
	if !reflect.DeepEqual(r.Orphaned, []string{"clock.unused"}) {
		t.Fatalf("Orphaned = %v", r.Orphaned)
	}
	if !reflect.DeepEqual(r.Missing, map[string][]string{"de.yaml": {"clock.unused"}}) {
		t.Fatalf("Missing = %v", r.Missing)
	}
	if !r.failed() {
		t.Fatal("expected failure")
	}
}

func TestLint_MissingPrimary(t *testing.T) {
	root := t.TempDir()
	if _, err := lint(root, filepath.Join(root, "locales")); err == nil {
		t.Fatal("expected error without a primary locale")
	}
}
