// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the goclock command line using Cobra. It loads the
// configuration, opens the snapshot database on demand and hands the clock
// to the interactive face or prints it for scripts.
package cli
