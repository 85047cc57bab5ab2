// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the goclock configuration from defaults, the
// goclock.yaml file, GOCLOCK_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/goclock/internal/clock"
)

// ErrInvalidTimeString is returned when a configured duration cannot be
// parsed as [[H:]MM:]SS.
var ErrInvalidTimeString = errors.New("invalid time string")

// Config is the application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	Log      struct {
		Level string `mapstructure:"level" yaml:"level"`
	} `mapstructure:"log" yaml:"log"`
	Clock ClockConfig `mapstructure:"clock" yaml:"clock"`
}

// ClockConfig is the default time control. Durations use the clock display
// format, e.g. "10:00" or "1:30:00".
type ClockConfig struct {
	MainTime      string `mapstructure:"main_time" yaml:"main_time"`
	Overtime      string `mapstructure:"overtime" yaml:"overtime"`
	OvertimeMoves int    `mapstructure:"overtime_moves" yaml:"overtime_moves"`
	Variant       string `mapstructure:"variant" yaml:"variant"`
	Increment     string `mapstructure:"increment" yaml:"increment"`
	Chances       int    `mapstructure:"chances" yaml:"chances"`
}

// Defaults returns the built-in configuration values keyed by viper path.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":        "sqlite",
		"database.dsn":         "./goclock.db",
		"language":             "en",
		"log.level":            "info",
		"clock.main_time":      "10:00",
		"clock.overtime":       "00:30",
		"clock.overtime_moves": 5,
		"clock.variant":        "canadian",
		"clock.increment":      "",
		"clock.chances":        0,
	}
}

func parseTime(field, s string) (time.Duration, error) {
	d, ok := clock.ParseTimeString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidTimeString, field, s)
	}
	return d, nil
}

// TimeSettings builds validated clock settings. It returns nil settings
// when neither a main time nor an overtime period is configured, which
// makes the clock count upwards. A zero main time without overtime counts
// upwards as well.
func (c ClockConfig) TimeSettings() (*clock.TimeSettings, error) {
	mainTime := strings.TrimSpace(c.MainTime)
	overtime := strings.TrimSpace(c.Overtime)
	if mainTime == "" && overtime == "" {
		return nil, nil
	}
	var p clock.SettingsParams
	if mainTime != "" {
		d, err := parseTime("main_time", mainTime)
		if err != nil {
			return nil, err
		}
		p.MainTime = d
	}
	if overtime != "" {
		d, err := parseTime("overtime", overtime)
		if err != nil {
			return nil, err
		}
		if d > 0 {
			p.UseOvertime = true
			p.OvertimePeriod = d
			p.OvertimeMoves = max(c.OvertimeMoves, 1)
		}
	}

	var param int64
	switch strings.ToLower(strings.TrimSpace(c.Variant)) {
	case "fischer", "increment":
		d, err := parseTime("increment", c.Increment)
		if err != nil {
			return nil, err
		}
		param = d.Milliseconds()
		p.UseOvertime, p.OvertimePeriod, p.OvertimeMoves = false, 0, 0
	case "plain":
		p.UseOvertime, p.OvertimePeriod, p.OvertimeMoves = false, 0, 0
	case "chances", "countdown":
		param = int64(c.Chances)
	}
	if strings.TrimSpace(c.Variant) != "" {
		v, err := clock.ParseVariant(c.Variant, param)
		if err != nil {
			return nil, err
		}
		p.Variant = v
	}
	settings, err := clock.NewTimeSettings(p)
	if err != nil {
		return nil, err
	}
	if settings.MainTime() == 0 && !settings.UseOvertime() {
		return nil, nil
	}
	return settings, nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Goclock")
		default: // Linux, macOS, etc.
			configDir = "/etc/goclock"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "goclock")
	}

	return filepath.Join(configDir, "goclock.yaml"), nil
}

// LoadConfig merges defaults, the first goclock.yaml found, a local
// .goclock.yaml, GOCLOCK_* environment variables and the flags of cmd into
// T. If no config file exists (or it is empty) the merged configuration is
// returned together with a viper.ConfigFileNotFoundError so the caller can
// write a default file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("goclock")
	v.SetConfigType("yaml")

	// An explicit --config path takes precedence over the search paths.
	if additionalConfigFilePath != nil && *additionalConfigFilePath != "" {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return c, err
		}
		notFound = err
	} else if fi, statErr := os.Stat(v.ConfigFileUsed()); statErr == nil && fi.Size() == 0 {
		notFound = viper.ConfigFileNotFoundError{}
	}

	mergeLocalConfig(v)

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("goclock")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// mergeLocalConfig merges a `.goclock.yaml` from the current directory on
// top of the loaded configuration. A malformed file is ignored.
func mergeLocalConfig(v *viper.Viper) {
	localConfigFile := ".goclock.yaml"
	if _, err := os.Stat(localConfigFile); err == nil {
		v.SetConfigFile(localConfigFile)
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile writes c as YAML to the user or system config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating its directory.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// The DSN may carry credentials.
	return os.WriteFile(path, data, 0600)
}
