// Package config loads keepalive settings from defaults, a TOML file,
// KEEPALIVE_* environment variables and command-line flags.
package config

import (
	"time"

	"github.com/stigoleg/keepalive-motion/internal/logging"
	"github.com/stigoleg/keepalive-motion/internal/motion"
	"github.com/stigoleg/keepalive-motion/internal/util"
)

// Config is the complete configuration
type Config struct {
	Motion   MotionConfig   `mapstructure:"motion"`
	Activity ActivityConfig `mapstructure:"activity"`
	Session  SessionConfig  `mapstructure:"session"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
	Platform PlatformConfig `mapstructure:"platform"`
}

// MotionConfig shapes and paces the figure-eight
type MotionConfig struct {
	Radius                int     `mapstructure:"radius"`
	DegreeIncrement       float64 `mapstructure:"degree_increment"`
	TicksPerRevolution    int64   `mapstructure:"ticks_per_revolution"`
	InitialStepDelayTicks int64   `mapstructure:"initial_step_delay_ticks"`
}

// ActivityConfig controls how long the user must be idle before drawing resumes
type ActivityConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	QuietChecks int           `mapstructure:"quiet_checks"`
}

// SessionConfig limits how long a session runs. Duration and Until are
// mutually exclusive; with neither the session runs until stopped.
type SessionConfig struct {
	Duration string `mapstructure:"duration"`
	Until    string `mapstructure:"until"`
}

// LoggingConfig configures zerolog output
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// UIConfig selects between the TUI and headless mode
type UIConfig struct {
	Headless bool `mapstructure:"headless"`
}

// PlatformConfig holds OS adapter choices
type PlatformConfig struct {
	// Input is the Linux relative-move backend, "xdotool" or "uinput".
	Input string `mapstructure:"input"`
}

// Default returns the built-in configuration
func Default() *Config {
	s := motion.DefaultSettings()
	l := logging.DefaultConfig()

	return &Config{
		Motion: MotionConfig{
			Radius:                s.Radius,
			DegreeIncrement:       s.DegreeIncrement,
			TicksPerRevolution:    s.TicksPerRevolution,
			InitialStepDelayTicks: s.InitialStepDelayTicks,
		},
		Activity: ActivityConfig{
			Interval:    s.ActivityInterval,
			QuietChecks: s.QuietChecks,
		},
		Logging: LoggingConfig{
			Level:  l.Level,
			Format: l.Format,
		},
		Platform: PlatformConfig{
			Input: InputXdotool,
		},
	}
}

// Settings converts the motion and activity sections for the engine.
func (c *Config) Settings() motion.Settings {
	return motion.Settings{
		Radius:                c.Motion.Radius,
		DegreeIncrement:       c.Motion.DegreeIncrement,
		TicksPerRevolution:    c.Motion.TicksPerRevolution,
		InitialStepDelayTicks: c.Motion.InitialStepDelayTicks,
		ActivityInterval:      c.Activity.Interval,
		QuietChecks:           c.Activity.QuietChecks,
	}
}

// LoggerConfig converts the logging section. In TUI mode a log that
// would go to the terminal is redirected to defaultLogFile.
func (c *Config) LoggerConfig(defaultLogFile string) logging.Config {
	cfg := logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}
	if cfg.File == "" && !c.UI.Headless {
		cfg.File = defaultLogFile
	}
	return cfg
}

// Timed reports whether the session has a limit
func (c *Config) Timed() bool {
	return c.Session.Duration != "" || c.Session.Until != ""
}

// SessionLength resolves the session limit against now. Zero means the
// session runs until stopped.
func (c *Config) SessionLength(now time.Time) (time.Duration, error) {
	switch {
	case c.Session.Duration != "" && c.Session.Until != "":
		return 0, errDurationAndUntil
	case c.Session.Duration != "":
		return util.ParseDuration(c.Session.Duration)
	case c.Session.Until != "":
		return util.UntilClock(c.Session.Until, now)
	default:
		return 0, nil
	}
}
