// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/goclock/internal/config"
	"github.com/toeirei/goclock/internal/i18n"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: i18n.T("cli.config.short"),
	}

	write := &cobra.Command{
		Use:   "write",
		Short: i18n.T("cli.config.write.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate the clock section before persisting it.
			if _, err := appConfig.Clock.TimeSettings(); err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("path")
			if path == "" {
				system, _ := cmd.Flags().GetBool("system")
				p, err := config.GetConfigPath(system)
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteConfigFileTo(&appConfig, path); err != nil {
				return fmt.Errorf("could not write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.config.written", path))
			return nil
		},
	}
	write.Flags().Bool("system", false, "Write the system-wide config instead of the user config")
	write.Flags().String("path", "", "Write to this file instead")

	cmd.AddCommand(write)
	return cmd
}
