package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stigoleg/keepalive-motion/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return fmt.Errorf("failed to determine config directory: %w", err)
				}
			}
			if err := config.WriteFile(path, config.Default(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadConfig(cmd, bootLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if used := m.FileUsed(); used != "" {
				fmt.Fprintln(cmd.OutOrStdout(), used)
				return nil
			}
			path, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to determine config directory: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "No config file found, using defaults (create one at %s)\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration after merging defaults, the config file and
KEEPALIVE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadConfig(cmd, bootLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), m.Get())
		},
	}

	cmd.AddCommand(initCmd, pathCmd, showCmd)
	return cmd
}
