package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// document is the on-disk layout. Durations are written in Go syntax so
// the file stays readable and round-trips through viper.
type document struct {
	Motion struct {
		Radius                int     `toml:"radius"`
		DegreeIncrement       float64 `toml:"degree_increment"`
		TicksPerRevolution    int64   `toml:"ticks_per_revolution"`
		InitialStepDelayTicks int64   `toml:"initial_step_delay_ticks"`
	} `toml:"motion"`
	Activity struct {
		Interval    string `toml:"interval"`
		QuietChecks int    `toml:"quiet_checks"`
	} `toml:"activity"`
	Session struct {
		Duration string `toml:"duration"`
		Until    string `toml:"until"`
	} `toml:"session"`
	Logging struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		File   string `toml:"file"`
	} `toml:"logging"`
	UI struct {
		Headless bool `toml:"headless"`
	} `toml:"ui"`
	Platform struct {
		Input string `toml:"input"`
	} `toml:"platform"`
}

func newDocument(cfg *Config) document {
	var d document
	d.Motion.Radius = cfg.Motion.Radius
	d.Motion.DegreeIncrement = cfg.Motion.DegreeIncrement
	d.Motion.TicksPerRevolution = cfg.Motion.TicksPerRevolution
	d.Motion.InitialStepDelayTicks = cfg.Motion.InitialStepDelayTicks
	d.Activity.Interval = cfg.Activity.Interval.String()
	d.Activity.QuietChecks = cfg.Activity.QuietChecks
	d.Session.Duration = cfg.Session.Duration
	d.Session.Until = cfg.Session.Until
	d.Logging.Level = cfg.Logging.Level
	d.Logging.Format = cfg.Logging.Format
	d.Logging.File = cfg.Logging.File
	d.UI.Headless = cfg.UI.Headless
	d.Platform.Input = cfg.Platform.Input
	return d
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := toml.NewEncoder(w).Encode(newDocument(cfg)); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// WriteFile writes cfg to path, creating parent directories. An existing
// file is only replaced when force is set.
func WriteFile(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := Encode(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
