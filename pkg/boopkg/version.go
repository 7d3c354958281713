// SPDX-License-Identifier: MPL-2.0

package boopkg

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid package version")

// InvalidVersionError is returned when a version string is not a strict semantic version.
// Err carries the parser's message.
type InvalidVersionError struct {
	Value string
	Err   error
}

// Error implements the error interface for InvalidVersionError.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version '%s': %v", e.Value, e.Err)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// ValidateVersion checks that version is a strict semantic version (MAJOR.MINOR.PATCH
// with optional pre-release and build metadata, no "v" prefix).
func ValidateVersion(version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return &InvalidVersionError{Value: version, Err: err}
	}
	return nil
}
