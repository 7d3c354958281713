// SPDX-License-Identifier: MPL-2.0

// Package archive builds and validates boo package archives.
//
// A package archive is a gzip-compressed POSIX tar stream held entirely in memory.
// Build produces one from a set of project files (usually found with Collect), and
// Validate inspects one without extracting it to disk.
//
// Validation uses a two-tier error policy. Problems with the package itself are
// aggregated into Issues so a user can fix everything in one pass. The one exception
// is an archive that cannot be read at all: a single Error is reported and no further
// checks run, because nothing derived from an unreadable container can be trusted.
package archive
