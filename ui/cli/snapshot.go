// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/goclock/internal/db"
	"github.com/toeirei/goclock/internal/i18n"
	"github.com/toeirei/goclock/internal/session"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snapshots"},
		Short:   i18n.T("cli.snapshot.short"),
	}
	cmd.AddCommand(
		newSnapshotListCmd(),
		newSnapshotShowCmd(),
		newSnapshotDeleteCmd(),
		newSnapshotExportCmd(),
		newSnapshotImportCmd(),
	)
	return cmd
}

func newSnapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: i18n.T("cli.snapshot.list.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initStore(); err != nil {
				return err
			}
			snaps, err := db.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, i18n.T("snapshot.none"))
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCREATED\tCLOCK")
			for i := range snaps {
				s := &snaps[i]
				line := "?"
				if status, err := session.SnapshotStatus(s); err == nil {
					line = status.String()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.ID, s.Name, s.CreatedAt.Local().Format(time.DateTime), line)
			}
			return w.Flush()
		},
	}
}

func newSnapshotShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: i18n.T("cli.snapshot.show.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initStore(); err != nil {
				return err
			}
			snap, err := db.GetSnapshotByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			status, err := session.SnapshotStatus(snap)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, snap.String())
			printStatus(out, status)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the raw snapshot as JSON")
	return cmd
}

func newSnapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: i18n.T("cli.snapshot.delete.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initStore(); err != nil {
				return err
			}
			snap, err := db.GetSnapshotByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			if err := db.DeleteSnapshot(cmd.Context(), snap.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("snapshot.deleted", snap.Name))
			return nil
		},
	}
}

func newSnapshotExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: i18n.T("cli.snapshot.export.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("could not create %s: %w", args[0], err)
			}
			n, err := db.ExportSnapshots(cmd.Context(), st, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("snapshot.exported", n, args[0]))
			return nil
		},
	}
}

func newSnapshotImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: i18n.T("cli.snapshot.import.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()
			imported, skipped, err := db.ImportSnapshots(cmd.Context(), st, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("snapshot.imported", imported, skipped))
			return nil
		},
	}
}

func newDBMaintainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db-maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeoutSec, _ := cmd.Flags().GetInt("timeout")
			ctx := cmd.Context()
			if timeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}
			if err := db.RunDBMaintenance(ctx, appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Maintenance completed successfully")
			return nil
		},
	}
	cmd.Flags().Int("timeout", 0, "Timeout in seconds for maintenance (0 means the default)")
	return cmd
}
