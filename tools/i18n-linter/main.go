// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the translation keys the
// source code uses. It fails when a key passed to i18n.T is missing from the
// primary locale or when another locale lacks a key of the primary one.
// Keys that no code references are reported as a warning.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var (
	// i18n.T("key") calls.
	callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	// Literals shaped like a key, e.g. in a table of help entries.
	literalRe = regexp.MustCompile(`"([a-z_]+\.[a-z_.]+)"`)
)

// report is the outcome of one lint run.
type report struct {
	Undefined []string
	Orphaned  []string
	Missing   map[string][]string
}

func (r report) failed() bool {
	return len(r.Undefined) > 0 || len(r.Missing) > 0
}

func main() {
	fmt.Println("Running i18n linter...")
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	printReport(r)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, dir string) (report, error) {
	called, referenced, err := findUsedKeys(root)
	if err != nil {
		return report{}, fmt.Errorf("scan sources: %w", err)
	}
	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("load %s: %w", primaryLocale, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return report{}, err
	}

	r := report{Missing: map[string][]string{}}
	for key := range called {
		if _, ok := primary[key]; !ok {
			r.Undefined = append(r.Undefined, key)
		}
	}
	for key := range primary {
		_, c := called[key]
		_, l := referenced[key]
		if !c && !l {
			r.Orphaned = append(r.Orphaned, key)
		}
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return report{}, fmt.Errorf("load %s: %w", file, err)
		}
		var missing []string
		for key := range primary {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			r.Missing[filepath.Base(file)] = missing
		}
	}
	sort.Strings(r.Undefined)
	sort.Strings(r.Orphaned)
	return r, nil
}

func printReport(r report) {
	fmt.Println("--- Keys used in code but not defined ---")
	printList(r.Undefined)
	fmt.Println("--- Keys defined but never used ---")
	printList(r.Orphaned)
	fmt.Println("--- Keys missing from secondary locales ---")
	if len(r.Missing) == 0 {
		fmt.Println("  none")
	}
	var locales []string
	for l := range r.Missing {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	for _, l := range locales {
		fmt.Printf("  %s:\n", l)
		for _, key := range r.Missing[l] {
			fmt.Printf("    - %s\n", key)
		}
	}
	switch {
	case r.failed():
		fmt.Println("Found issues that need to be addressed.")
	case len(r.Orphaned) > 0:
		fmt.Println("Found unused keys. Consider removing them.")
	default:
		fmt.Println("All translation files are consistent.")
	}
}

func printList(keys []string) {
	if len(keys) == 0 {
		fmt.Println("  none")
		return
	}
	for _, k := range keys {
		fmt.Printf("  - %s\n", k)
	}
}

// findUsedKeys scans the non-test Go files under root. It returns the keys
// passed to i18n.T and the key-shaped literals found elsewhere.
func findUsedKeys(root string) (called, referenced map[string]struct{}, err error) {
	called = map[string]struct{}{}
	referenced = map[string]struct{}{}
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range callRe.FindAllStringSubmatch(string(content), -1) {
			called[m[1]] = struct{}{}
		}
		for _, m := range literalRe.FindAllStringSubmatch(string(content), -1) {
			referenced[m[1]] = struct{}{}
		}
		return nil
	})
	return called, referenced, err
}

// loadKeysFromLocale returns the flattened keys of a locale file.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML joins nested maps into dot-separated keys. Flat dotted keys
// pass through unchanged.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
