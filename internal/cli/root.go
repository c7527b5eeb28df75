// Package cli builds the keepalive command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stigoleg/keepalive-motion/internal/config"
	"github.com/stigoleg/keepalive-motion/internal/keepalive"
	"github.com/stigoleg/keepalive-motion/internal/logging"
	"github.com/stigoleg/keepalive-motion/internal/platform"
	"github.com/stigoleg/keepalive-motion/internal/ui"
)

// app carries state shared by the commands of one invocation.
type app struct {
	version    string
	configFile string

	// replaced in tests
	capability func() platform.Capability
	keeperOpts []keepalive.Option
}

func newApp(version string) *app {
	return &app{
		version:    version,
		capability: platform.CheckCapability,
	}
}

// NewRootCommand returns the keepalive command with all subcommands.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(newApp(version))
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "keepalive",
		Short: "Keep your session awake by drawing slow figure-eights with the cursor",
		Long: `Keep-Alive moves the mouse cursor in a slow figure-eight whenever you
leave it alone, so the screen does not lock and chat clients keep you active.

Touching the mouse pauses the drawing. It resumes around the new cursor
position once the mouse has rested for a while.

Settings are read from config.toml in the working directory or the user
configuration directory, KEEPALIVE_* environment variables and flags, in
increasing order of precedence.`,
		Example: `  keepalive                  # Start with interactive TUI
  keepalive -d 2h30m         # Keep awake for 2 hours and 30 minutes
  keepalive -d 150           # Keep awake for 150 minutes
  keepalive -c 17:30         # Keep awake until 17:30
  keepalive --headless       # Run in the foreground without the TUI`,
		Version:       versionString(a),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          a.runRoot,
	}

	root.SetVersionTemplate("Keep-Alive Version: {{.Version}}\n")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default ./config.toml or the user config directory)")
	config.AddFlags(root.Flags())

	root.AddCommand(
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

func versionString(a *app) string {
	if a.version == "" {
		return "dev"
	}
	return a.version
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	root := NewRootCommand(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}
	return 0
}

// loadConfig merges every configuration source. Flags are only bound
// when cmd defines them.
func (a *app) loadConfig(cmd *cobra.Command, log zerolog.Logger) (*config.Manager, error) {
	m, err := config.NewManager(a.configFile, logging.WithComponent(log, "config"))
	if err != nil {
		return nil, err
	}
	if err := m.BindFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// bootLogger reports problems that happen before logging is configured.
func bootLogger(w io.Writer) zerolog.Logger {
	return logging.NewWithWriter(w, zerolog.WarnLevel, logging.FormatConsole)
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Keep-Alive Version: %s\n", versionString(a))
		},
	}
}
