// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ekgame/uiua-boo/internal/issue"
	"github.com/ekgame/uiua-boo/pkg/archive"
	"github.com/ekgame/uiua-boo/pkg/boopkg"
)

// packageBuild is a project directory turned into a package archive.
type packageBuild struct {
	def     *boopkg.PackageDefinition
	archive []byte
	// issues are sorted for display; archive is nil when collection failed.
	issues archive.Issues
}

// validateArchive validates data and orders the issues for display.
func validateArchive(data []byte, rules archive.Rules) archive.Issues {
	return archive.Validate(data, rules).Sorted()
}

// buildPackage loads boo.json from dir, collects the included files, builds the
// archive, and validates it against rules and the manifest it was built from.
// Problems with the package content are returned as issues; the error covers
// everything that prevents looking at the content at all.
func buildPackage(dir string, rules archive.Rules) (*packageBuild, error) {
	manifestPath := filepath.Join(dir, boopkg.ManifestFileName)

	def, err := boopkg.Load(dir)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("load package manifest").
			WithResource(manifestPath)
		if errors.Is(err, boopkg.ErrManifestNotFound) {
			ctx.WithSuggestion("Please run `boo init` first").WithIssue(issue.ManifestNotFoundId)
		} else {
			ctx.WithSuggestion("Check that boo.json is valid JSON").WithIssue(issue.ManifestInvalidId)
		}
		return nil, ctx.Wrap(err).BuildError()
	}
	if err := def.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate package manifest").
			WithResource(manifestPath).
			WithIssue(issue.ManifestInvalidId).
			Wrap(err).
			BuildError()
	}

	files, issues := archive.Collect(dir, def.Include)
	if issues.HasErrors() {
		return &packageBuild{def: def, issues: issues.Sorted()}, nil
	}

	data, err := archive.Build(dir, files)
	if err != nil {
		return nil, fmt.Errorf("failed to create the package archive: %w", err)
	}

	issues = append(issues, archive.Validate(data, rules.WithExpectations(def.Name, def.Version))...)
	return &packageBuild{def: def, archive: data, issues: issues.Sorted()}, nil
}
