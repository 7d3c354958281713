// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ekgame/uiua-boo/internal/platform"
)

// Collect expands include patterns (with "**" support) relative to root and returns
// the matched regular files as sorted, deduplicated slash paths.
//
// A pattern that matches nothing yields a Warning; an invalid pattern yields an Error.
// Files that could not be unpacked on Windows also yield a Warning.
func Collect(root string, patterns []string) ([]string, Issues) {
	return CollectFS(os.DirFS(root), patterns)
}

// CollectFS is Collect over an arbitrary filesystem.
func CollectFS(fsys fs.FS, patterns []string) ([]string, Issues) {
	var issues Issues
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		normalized := strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if !doublestar.ValidatePattern(normalized) {
			issues.Errorf("Invalid glob pattern '%s': %v", pattern, doublestar.ErrBadPattern)
			continue
		}

		matches, err := doublestar.Glob(fsys, normalized, doublestar.WithFilesOnly())
		if err != nil {
			issues.Errorf("Invalid glob pattern '%s': %v", pattern, err)
			continue
		}

		matched := 0
		for _, m := range matches {
			info, err := fs.Stat(fsys, m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			matched++
			seen[m] = struct{}{}
		}
		if matched == 0 {
			issues.Warnf("No files matched the pattern '%s'", pattern)
		}
	}

	files := slices.Sorted(maps.Keys(seen))
	for _, f := range files {
		if elem, ok := platform.WindowsReservedElement(f); ok {
			issues.Warnf("The file '%s' cannot be unpacked on Windows: '%s' is a reserved name", f, elem)
		}
	}
	return files, issues
}
