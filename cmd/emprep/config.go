// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/emprep/internal/config"
)

// newConfigCommand creates the `emprep config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage emprep configuration",
		Long: `Manage emprep configuration.

Configuration is stored in:
  - Linux: ~/.config/emprep/config.cue
  - macOS: ~/Library/Application Support/emprep/config.cue
  - Windows: %APPDATA%\emprep\config.cue

A config.cue in the current directory is used when the file above is
missing. EMPREP_<FIELD> environment variables override file values, for
example EMPREP_DESTINATION or EMPREP_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}

			source := SubtitleStyle.Render("(using defaults)")
			if loaded.Path != "" {
				source = loaded.Path
			}
			fmt.Fprintf(app.stderr, "%s %s\n\n", KeyStyle.Render("Config file:"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(loaded.Config))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("", force)
			if errors.Is(err, config.ErrConfigExists) {
				fmt.Fprintln(app.stdout, WarningStyle.Render("Configuration already exists: ")+path)
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("Use --force to overwrite it."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("Created ")+path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Long: `Print the configuration file that would be loaded. When none exists, the
path 'emprep config init' would create is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			if path == "" {
				dir, err := config.ConfigDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}
