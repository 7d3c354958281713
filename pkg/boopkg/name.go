// SPDX-License-Identifier: MPL-2.0

package boopkg

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// NameSeparator separates the scope from the package name.
	NameSeparator = "/"

	// MinNamePieceLength is the minimum length of a scope or package name.
	MinNamePieceLength = 2
	// MaxNamePieceLength is the maximum length of a scope or package name.
	MaxNamePieceLength = 32

	scopeLabel   = "scope"
	packageLabel = "package name"
)

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid package name")

type (
	// Name is a fully qualified package identifier in "scope/name" form.
	Name string

	// InvalidNameError is returned when a Name violates one of the naming rules.
	// Reason is the user-facing description of the first rule that failed.
	InvalidNameError struct {
		Value  Name
		Reason string
	}
)

// String returns the string representation of the Name.
func (n Name) String() string { return string(n) }

// Validate checks the name against the naming rules and returns the first violation.
func (n Name) Validate() error {
	return ValidateName(string(n))
}

// IsValid returns whether the Name is valid.
func (n Name) IsValid() (bool, []error) {
	if err := n.Validate(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Error implements the error interface for InvalidNameError.
func (e *InvalidNameError) Error() string { return e.Reason }

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// ValidateName checks a "scope/name" identifier. Rules are applied in order and the
// first failing rule is reported:
//   - the name is not empty
//   - it contains exactly one '/' separator
//   - the scope and the package name each satisfy the piece rules (see validatePiece)
func ValidateName(name string) error {
	if name == "" {
		return invalidName(name, "package name cannot be empty")
	}
	if strings.Count(name, NameSeparator) != 1 {
		return invalidName(name, "package name must contain exactly one '/' separating the scope and the package name")
	}

	scope, pkg, _ := strings.Cut(name, NameSeparator)
	if reason := validatePiece(scopeLabel, scope); reason != "" {
		return invalidName(name, reason)
	}
	if reason := validatePiece(packageLabel, pkg); reason != "" {
		return invalidName(name, reason)
	}
	return nil
}

// validatePiece returns the reason the piece is invalid, or "" when it is valid.
func validatePiece(label, piece string) string {
	if piece == "" {
		return fmt.Sprintf("%s cannot be empty", label)
	}
	for i := range len(piece) {
		if !isPieceChar(piece[i]) {
			return fmt.Sprintf("%s '%s' can only contain ASCII letters, numbers, and dashes", label, piece)
		}
	}
	if strings.HasPrefix(piece, "-") || strings.HasSuffix(piece, "-") {
		return fmt.Sprintf("%s '%s' cannot start or end with a dash", label, piece)
	}
	if strings.Contains(piece, "--") {
		return fmt.Sprintf("%s '%s' cannot contain consecutive dashes", label, piece)
	}
	if len(piece) < MinNamePieceLength || len(piece) > MaxNamePieceLength {
		return fmt.Sprintf("%s '%s' must be between %d and %d characters long",
			label, piece, MinNamePieceLength, MaxNamePieceLength)
	}
	return ""
}

func isPieceChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	default:
		return c == '-'
	}
}

func invalidName(name, reason string) error {
	return &InvalidNameError{Value: Name(name), Reason: reason}
}

// SplitName splits a "scope/name" identifier into its two pieces.
// The second return value is false when the name has no separator.
func SplitName(name string) (scope, pkg string, ok bool) {
	return strings.Cut(name, NameSeparator)
}
