package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

func TestDefaultMatchesMotionDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, motion.DefaultSettings(), cfg.Settings())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, InputXdotool, cfg.Platform.Input)
	assert.False(t, cfg.Timed())
	assert.NoError(t, Validate(cfg))
}

func TestSessionLength(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		duration string
		until    string
		want     time.Duration
		wantErr  string
	}{
		{name: "indefinite"},
		{name: "minutes", duration: "150", want: 150 * time.Minute},
		{name: "go duration", duration: "2h30m", want: 150 * time.Minute},
		{name: "later today", until: "22:30", want: 12*time.Hour + 30*time.Minute},
		{name: "12 hour clock", until: "10:30PM", want: 12*time.Hour + 30*time.Minute},
		{name: "already passed", until: "09:00", want: 23 * time.Hour},
		{name: "both", duration: "30", until: "22:30", wantErr: "mutually exclusive"},
		{name: "bad duration", duration: "soon", wantErr: "invalid duration format"},
		{name: "bad clock", until: "25:00", wantErr: "invalid time format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Session.Duration = tt.duration
			cfg.Session.Until = tt.until

			got, err := cfg.SessionLength(now)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.duration != "" || tt.until != "", cfg.Timed())
		})
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "/tmp/k.log", cfg.LoggerConfig("/tmp/k.log").File, "TUI mode keeps the terminal clean")

	cfg.UI.Headless = true
	assert.Empty(t, cfg.LoggerConfig("/tmp/k.log").File)

	cfg.Logging.File = "/var/log/keepalive.log"
	assert.Equal(t, "/var/log/keepalive.log", cfg.LoggerConfig("/tmp/k.log").File)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"radius", func(c *Config) { c.Motion.Radius = 0 }, "radius must be positive"},
		{"quiet checks", func(c *Config) { c.Activity.QuietChecks = 0 }, "quiet checks must be at least 1"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
		{"input", func(c *Config) { c.Platform.Input = "evdev" }, "invalid input backend"},
		{"duration and until", func(c *Config) {
			c.Session.Duration = "1h"
			c.Session.Until = "22:00"
		}, "mutually exclusive"},
		{"negative duration", func(c *Config) { c.Session.Duration = "-5" }, "invalid duration format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorContains(t, Validate(cfg), tt.wantErr)
		})
	}
}
