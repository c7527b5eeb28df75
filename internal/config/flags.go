package config

import (
	"github.com/spf13/pflag"
)

// AddFlags registers the flags that Manager.BindFlags maps onto
// configuration keys. Flag defaults mirror Default so help output
// shows the effective values.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.StringP("duration", "d", "", "Duration to keep the system alive (e.g., \"2h30m\" or \"90\" minutes)")
	fs.StringP("until", "c", "", "Keep alive until a clock time (e.g., \"22:30\" or \"10:30PM\")")
	fs.Int("radius", d.Motion.Radius, "Radius of each figure-eight lobe in pixels")
	fs.Duration("interval", d.Activity.Interval, "Time between idle checks after the user moves the cursor")
	fs.String("log-level", d.Logging.Level, "Log level (trace, debug, info, warn, error)")
	fs.String("log-format", d.Logging.Format, "Log format (console or json)")
	fs.String("log-file", d.Logging.File, "Write logs to this file")
	fs.Bool("headless", d.UI.Headless, "Run without the terminal UI")
	fs.String("input", d.Platform.Input, "Linux relative-move backend (xdotool or uinput)")
}
