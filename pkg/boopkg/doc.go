// SPDX-License-Identifier: MPL-2.0

// Package boopkg models the boo package manifest (boo.json) and the syntax rules
// for package names and versions.
//
// A PackageDefinition is plain data: its name and version are not required to be
// valid at construction time. Validity is checked explicitly with ValidateName and
// ValidateVersion so that callers (the archive validator, the CLI) can decide how to
// report problems.
package boopkg
