// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries an operation, a resource, and suggestions. It may
// also point at a catalog Issue, a Markdown page rendered with glamour that
// explains how to recover.
package issue
