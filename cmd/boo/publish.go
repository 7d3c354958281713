// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ekgame/uiua-boo/internal/publish"
	"github.com/ekgame/uiua-boo/internal/registry"
)

type publishOptions struct {
	check     bool
	offline   bool
	yes       bool
	noBrowser bool
}

func newPublishCommand(app *App) *cobra.Command {
	opts := &publishOptions{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the package in the current directory",
		Long: `Publish the package in the current directory to the registry.

The files matched by the "include" patterns of boo.json are packed into a
.tar.gz archive and validated locally. Publishing then asks you to approve boo
in the browser, uploads the archive, and waits for the registry to process it.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.check && opts.offline {
				return &ExitError{Code: ExitUsage, Err: errors.New("--check and --offline cannot be used together")}
			}
			return runPublish(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.check, "check", false, "only check the package for issues")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "write the package archive to disk instead of publishing")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "publish without asking for confirmation")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "do not open the approval page in a browser")

	return cmd
}

func runPublish(ctx context.Context, app *App, opts *publishOptions) error {
	rules, err := app.cfg.Validation.Rules()
	if err != nil {
		return err
	}

	build, err := buildPackage(app.WorkDir, rules)
	if err != nil {
		return err
	}
	printIssues(app.stdout, build.issues)
	hasErrors := build.issues.HasErrors()

	if opts.check {
		if hasErrors {
			return errReported
		}
		printOK(app.stdout, "No issues found. Package is ready for publishing.")
		return nil
	}
	if hasErrors {
		return errReported
	}

	def := build.def
	if opts.offline {
		outputFile := def.ArchiveFileName()
		if err := os.WriteFile(filepath.Join(app.WorkDir, outputFile), build.archive, 0o644); err != nil {
			printError(app.stdout, fmt.Sprintf("Failed to write package to file '%s': %v", outputFile, err))
			return errReported
		}
		printOK(app.stdout, fmt.Sprintf("Package created successfully: '%s'", outputFile))
		return nil
	}

	if !opts.yes && app.interactive() {
		ok, err := app.Prompter.Confirm(
			fmt.Sprintf("Publish %s@%s?", def.Name, def.Version),
			fmt.Sprintf("%s archive to %s", humanize.Bytes(uint64(len(build.archive))), app.cfg.API.URL),
		)
		if err != nil {
			return fmt.Errorf("confirmation prompt failed: %w", err)
		}
		if !ok {
			printWarning(app.stdout, "Publishing canceled.")
			return nil
		}
	}

	client := registry.New(
		registry.WithBaseURL(app.cfg.API.URL),
		registry.WithTimeout(app.cfg.API.Timeout),
		registry.WithUserAgent("Boo CLI/"+Version),
	)
	publisher := publish.NewPublisher(client,
		publish.WithPollInterval(app.cfg.Publish.PollInterval),
		publish.WithAuthTimeout(app.cfg.Publish.AuthTimeout),
		publish.WithJobTimeout(app.cfg.Publish.JobTimeout),
		publish.WithRules(rules),
		publish.WithObserver(&terminalObserver{
			out:         app.stdout,
			browser:     app.Browser,
			openBrowser: app.cfg.Publish.OpenBrowser && !opts.noBrowser,
		}),
	)

	if _, err := publisher.Publish(ctx, publish.Request{Definition: def, Archive: build.archive}); err != nil {
		reportFailure(app.stdout, app.stderr, err)
		return errReported
	}
	printOK(app.stdout, "Package published successfully.")
	return nil
}
