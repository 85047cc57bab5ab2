// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/i18n"
	"github.com/toeirei/goclock/internal/logging"
	"github.com/toeirei/goclock/internal/session"
	"github.com/toeirei/goclock/internal/tui"
	"golang.org/x/term"
)

// isTerminal reports whether the clock face can be shown. Tests override it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runClockFace runs the interactive clock. Tests override it.
var runClockFace = tui.Run

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("load", "", "Restore a saved snapshot before starting")
	cmd.Flags().String("name", "", "Snapshot name used by the save key")
	cmd.Flags().Bool("no-store", false, "Run without the snapshot database")
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: i18n.T("cli.play.short"),
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	addPlayFlags(cmd)
	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	settings, err := appConfig.Clock.TimeSettings()
	if err != nil {
		return err
	}

	bridge := tui.NewBridge()
	c := clock.New(clock.WithDispatcher(bridge), clock.WithLogger(logging.L))
	c.SetTimeSettings(settings)
	c.Reset()

	var opts []session.Option
	noStore, _ := cmd.Flags().GetBool("no-store")
	if !noStore {
		st, err := openStore()
		if err != nil {
			logging.Warnf("snapshot store unavailable, saving is disabled: %v", err)
		} else {
			opts = append(opts, session.WithStore(st))
		}
	}
	s := session.New(c, opts...)

	if name, _ := cmd.Flags().GetString("load"); name != "" {
		if err := s.Load(cmd.Context(), name); err != nil {
			return err
		}
	}

	if !isTerminal() {
		fmt.Fprintln(cmd.OutOrStdout(), s.Status())
		return nil
	}

	saveName, _ := cmd.Flags().GetString("name")

	// The clock face owns the terminal; keep log lines out of it.
	logging.SetOutput(io.Discard)
	defer logging.SetOutput(os.Stderr)

	return runClockFace(cmd.Context(), s, bridge, tui.Options{SaveName: saveName})
}
