// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ekgame/uiua-boo/internal/issue"
)

type validateOptions struct {
	expectName    string
	expectVersion string
	json          bool
}

func newValidateCommand(app *App) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a package archive",
		Long: `Validate a package archive (.tar.gz) the way the registry does.

Checks the compressed size, the size of each file, the boo.json manifest, and
the presence of lib.ua or main.ua. The exit status is non-zero when an issue
is found.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(app, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.expectName, "expect-name", "", "require the manifest to declare this package name")
	cmd.Flags().StringVar(&opts.expectVersion, "expect-version", "", "require the manifest to declare this version")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the issues as a JSON array")

	return cmd
}

func runValidate(app *App, path string, opts *validateOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read package archive").
			WithResource(path).
			WithSuggestion("Create an archive with 'boo publish --offline'").
			Wrap(err).
			BuildError()
	}

	rules, err := app.cfg.Validation.Rules()
	if err != nil {
		return err
	}
	issues := validateArchive(data, rules.WithExpectations(opts.expectName, opts.expectVersion))

	if opts.json {
		if err := writeIssuesJSON(app.stdout, issues); err != nil {
			return fmt.Errorf("failed to write issues: %w", err)
		}
	} else if len(issues) == 0 {
		printOK(app.stdout, "Package validation passed successfully.")
	} else {
		printError(app.stdout, "Package validation failed:")
		printIssues(app.stdout, issues)
	}

	if issues.HasErrors() {
		return errReported
	}
	return nil
}
