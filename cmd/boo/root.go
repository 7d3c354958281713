// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	verbose bool
	cfgFile string
}

// newRootCommand builds the complete command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "boo",
		Short: "Uiua package manager",
		Long: TitleStyle.Render("boo") + SubtitleStyle.Render(" - Uiua package manager") + `

boo creates, validates, and publishes Uiua packages to the registry at
https://uiua.boo/.

` + SubtitleStyle.Render("Examples:") + `
  boo init scope/name       Create boo.json in the current directory
  boo publish --check       Check the package without publishing
  boo publish --offline     Write the package archive to disk
  boo publish               Publish the package
  boo validate pkg.tar.gz   Validate an existing package archive`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.verbose = flags.verbose
			if err := app.loadConfig(cmd.Context(), flags.cfgFile); err != nil {
				return err
			}
			app.verbose = flags.verbose || app.cfg.UI.Verbose
			slog.SetDefault(newLogger(app.stderr, app.verbose))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	rootCmd.SetFlagErrorFunc(usageFlagError)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/boo/config.cue)")

	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newPublishCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs boo with the process arguments and exits with its status code.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// Run executes the command tree with args and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(tagError)+" "+err.Error())
		return ExitFailure
	}

	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	err = fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	return exitCode(err)
}

// handleError prints errors that escaped the command handlers. Errors already
// reported by a handler carry no message and are skipped.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	if ae := asActionable(err); ae != nil {
		reportActionable(w, ae, a.verbose)
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
