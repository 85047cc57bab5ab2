// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/config"
	"github.com/toeirei/goclock/internal/db"
	"github.com/toeirei/goclock/internal/i18n"
	"github.com/toeirei/goclock/internal/model"
	"github.com/toeirei/goclock/internal/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <snapshot>",
		Short: i18n.T("cli.status.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initStore(); err != nil {
				return err
			}
			snap, err := db.GetSnapshotByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			status, err := session.SnapshotStatus(snap)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

// printStatus writes one line per player followed by the time control.
func printStatus(w io.Writer, st session.Status) {
	for _, p := range st.Players {
		name := i18n.T("color.black")
		if p.Color == model.White {
			name = i18n.T("color.white")
		}
		line := fmt.Sprintf("%-8s %s", name, p.Display)
		switch {
		case p.Lost:
			line += "  " + i18n.T("clock.lost_on_time")
		case p.InOvertime:
			line += "  " + i18n.T("clock.overtime")
		}
		if p.ToMove {
			line += "  (" + i18n.T("clock.to_move") + ")"
		}
		fmt.Fprintln(w, line)
	}
	if st.Settings != "" {
		fmt.Fprintln(w, st.Settings)
	} else {
		fmt.Fprintln(w, i18n.T("clock.no_limit"))
	}
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <seconds> [moves]",
		Short: i18n.T("cli.format.short"),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q: %w", args[0], err)
			}
			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), clock.FormatSeconds(secs))
				return nil
			}
			moves, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid moves %q: %w", args[1], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), clock.FormatTimeLeft(time.Duration(secs)*time.Second, moves))
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <time>",
		Short: i18n.T("cli.parse.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := clock.ParseTimeString(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", config.ErrInvalidTimeString, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), int64(d/time.Second))
			return nil
		},
	}
}
