// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekgame/uiua-boo/pkg/boopkg"
)

func newInitCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init [scope/name]",
		Short: "Create boo.json in the current directory",
		Long: `Create a boo.json package manifest in the current directory.

The package name defaults to "` + boopkg.DefaultName + `" and the version to "` + boopkg.DefaultVersion + `".
An existing boo.json is never overwritten.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := boopkg.DefaultName
			if len(args) > 0 {
				name = args[0]
			}
			return runInit(app, name)
		},
	}
}

func runInit(app *App, name string) error {
	_, err := boopkg.Scaffold(app.WorkDir, name)
	switch {
	case err == nil:
		printOK(app.stdout, boopkg.ManifestFileName+" created successfully.")
		return nil
	case errors.Is(err, boopkg.ErrManifestExists):
		printError(app.stdout, boopkg.ManifestFileName+" already exists. Skipping initialization.")
		return errReported
	case errors.Is(err, boopkg.ErrInvalidName):
		printError(app.stdout, fmt.Sprintf("Invalid package name '%s': %v", name, err))
		return errReported
	default:
		printError(app.stdout, fmt.Sprintf("Failed to write to %s: %v", boopkg.ManifestFileName, err))
		return errReported
	}
}
