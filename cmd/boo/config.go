// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ekgame/uiua-boo/internal/config"
)

// newConfigCommand creates the `boo config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage boo configuration",
		Long: `Manage boo configuration.

Configuration is stored in:
  - Linux: ~/.config/boo/config.cue
  - macOS: ~/Library/Application Support/boo/config.cue
  - Windows: %APPDATA%\boo\config.cue

A boo.config.cue in the package directory is used when no user configuration
exists. Environment variables such as BOO_API_URL override both.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(app *App) error {
	source := app.cfg.Source
	if source == "" {
		source = "(using defaults)"
	}
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("// Source: "+source))
	fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
	return nil
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	path, err := config.WriteDefault(cfgDir)
	if errors.Is(err, config.ErrConfigExists) {
		printWarning(app.stdout, fmt.Sprintf("Configuration already exists at %s", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	printOK(app.stdout, fmt.Sprintf("Created default configuration at %s", path))
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("User config"), filepath.Join(cfgDir, config.ConfigFileName))
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Project config"), filepath.Join(app.WorkDir, config.LocalConfigFileName))
	return nil
}
