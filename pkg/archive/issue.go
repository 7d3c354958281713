// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"slices"
)

const (
	// SeverityWarning marks an issue that does not block publishing.
	SeverityWarning Severity = "warning"
	// SeverityError marks an issue that blocks publishing.
	SeverityError Severity = "error"
)

type (
	// Severity is the severity of a validation issue.
	Severity string

	// Issue is a single problem found while collecting, building, or validating a package.
	Issue struct {
		Severity Severity `json:"severity"`
		Message  string   `json:"message"`
	}

	// Issues is an ordered collection of validation issues.
	Issues []Issue
)

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// Errorf appends an Error-severity issue.
func (is *Issues) Errorf(format string, args ...any) {
	*is = append(*is, Issue{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Warnf appends a Warning-severity issue.
func (is *Issues) Warnf(format string, args ...any) {
	*is = append(*is, Issue{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// HasErrors returns whether at least one issue has Error severity.
func (is Issues) HasErrors() bool {
	return slices.ContainsFunc(is, func(i Issue) bool { return i.Severity == SeverityError })
}

// Sorted returns a copy with warnings listed before errors, keeping the original
// order within each severity.
func (is Issues) Sorted() Issues {
	sorted := slices.Clone(is)
	slices.SortStableFunc(sorted, func(a, b Issue) int {
		return severityRank(a.Severity) - severityRank(b.Severity)
	})
	return sorted
}

func severityRank(s Severity) int {
	if s == SeverityWarning {
		return 0
	}
	return 1
}
