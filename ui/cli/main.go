// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface of goclock using Cobra. It
// defines the root command, the persistent flags shared by every
// subcommand and the service setup that runs before each command.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/goclock/buildvars"
	"github.com/toeirei/goclock/internal/config"
	"github.com/toeirei/goclock/internal/db"
	"github.com/toeirei/goclock/internal/i18n"
	"github.com/toeirei/goclock/internal/logging"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var cfgFile string
var verbose bool

var appConfig config.Config

// skipConfigWrite suppresses writing a default config file on first run.
// Tests set it to keep the user's config directory untouched.
var skipConfigWrite bool

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, configPath)
	// A missing file is expected on first run.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if !skipConfigWrite {
			if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
				logging.Warnf("could not write default config file: %v", writeErr)
			} else {
				logging.Debugf("wrote default config to user config path")
			}
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in a user file fall back to the defaults.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	if err := logging.SetLevel(appConfig.Log.Level); err != nil {
		logging.Warnf("%v", err)
	}
	if verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	i18n.Init(appConfig.Language)
	return nil
}

// openStore initializes the snapshot database from the loaded config unless
// it is already open.
func openStore() (db.Store, error) {
	if err := initStore(); err != nil {
		return nil, err
	}
	return db.DefaultStore(), nil
}

// initStore installs the package-level store used by the db helpers.
func initStore() error {
	if db.IsInitialized() {
		return nil
	}
	return db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn)
}

// Execute runs the CLI entrypoint. The main package calls it and handles
// the process exit.
func Execute() error {
	defer func() {
		if st := db.DefaultStore(); st != nil {
			if err := st.Close(); err != nil {
				logging.Errorf("closing database: %v", err)
			}
		}
	}()
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// applyDefaultFlags registers the flags that are bound to config keys.
// Their names are the viper keys so LoadConfig can bind them directly.
func applyDefaultFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	f.String("database.dsn", "./goclock.db", "Database connection string (DSN)")
	f.String("language", "en", `Interface language ("en", "de")`)
	f.String("log.level", "info", "Log level (debug, info, warn, error)")
	f.String("clock.main_time", "10:00", "Main time, e.g. 10:00 or 1:30:00")
	f.String("clock.overtime", "00:30", "Overtime period")
	f.Int("clock.overtime_moves", 5, "Moves per overtime period (canadian)")
	f.String("clock.variant", "canadian", "Time control (plain, canadian, fischer, chances)")
	f.String("clock.increment", "", "Increment per move (fischer)")
	f.Int("clock.chances", 0, "Number of overtime chances (chances)")
}

// NewRootCmd creates and configures a new root cobra command. Tests call it
// for a fresh command tree per run.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goclock",
		Short: i18n.T("cli.root.short"),
		Long: `goclock is a game clock for Go. It supports absolute time, Canadian
overtime, Fischer increments and a countdown with extra chances, and can
save and restore a running game.

Running without a subcommand starts the interactive clock.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
		RunE:              runPlay,
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	applyDefaultFlags(cmd)
	addPlayFlags(cmd)

	cmd.AddCommand(
		newPlayCmd(),
		newStatusCmd(),
		newFormatCmd(),
		newParseCmd(),
		newSnapshotCmd(),
		newDBMaintainCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("cli.version.short"),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("version", v))
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" && c != v {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If info is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record our module as a dependency.
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit given via ldflags.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}

const modulePath = "github.com/toeirei/goclock"
