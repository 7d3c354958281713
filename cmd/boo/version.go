// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ProjectURL is the home of the package registry.
const ProjectURL = "https://uiua.boo/"

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the boo version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(app.stdout, "Boo v%s - Uiua package manager.\n", Version)
			fmt.Fprintf(app.stdout, "Find out more at %s\n", ProjectURL)
			return nil
		},
	}
}
