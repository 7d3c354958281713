// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"io/fs"

	"github.com/dustin/go-humanize"

	"github.com/ekgame/uiua-boo/pkg/boopkg"
)

// Validate inspects an in-memory archive and returns every issue found. An empty
// result means the archive passes.
//
// The checks run in order and all of them run even when earlier ones report issues,
// except when the archive cannot be opened: that is reported as a single Error and
// nothing else is checked.
func Validate(data []byte, rules Rules) Issues {
	var issues Issues

	if size := int64(len(data)); rules.MaxCompressedSize > 0 && size > rules.MaxCompressedSize {
		issues.Errorf("The compressed package is %s, exceeding the maximum size of %s",
			formatSize(size), formatSize(rules.MaxCompressedSize))
	}

	fsys, err := Open(data, rules.MaxUnpackedSize)
	if err != nil {
		issues.Errorf("Failed to read the archive: %v", err)
		return issues
	}

	return append(issues, ValidateFS(fsys, rules)...)
}

// ValidateFS runs the archive content checks (entry sizes, manifest, entry points)
// against an already opened filesystem.
func ValidateFS(fsys fs.FS, rules Rules) Issues {
	var issues Issues
	checkEntrySizes(fsys, rules.MaxEntrySize, &issues)
	checkManifest(fsys, rules, &issues)
	checkEntryPoints(fsys, &issues)
	return issues
}

func checkEntrySizes(fsys fs.FS, limit int64, issues *Issues) {
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			issues.Errorf("Failed to read the entry '%s' in the archive: %v", path, err)
			return nil
		}
		if d.IsDir() || limit <= 0 {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			issues.Errorf("Failed to read the entry '%s' in the archive: %v", path, err)
			return nil
		}
		if info.Size() > limit {
			issues.Errorf("The file '%s' is %s, exceeding the maximum size of %s",
				path, formatSize(info.Size()), formatSize(limit))
		}
		return nil
	})
}

func checkManifest(fsys fs.FS, rules Rules, issues *Issues) {
	def, err := boopkg.ParseFS(fsys)
	switch {
	case errors.Is(err, boopkg.ErrManifestNotFound):
		issues.Errorf("The package must contain a '%s' manifest at its root", boopkg.ManifestFileName)
		return
	case err != nil:
		issues.Errorf("Failed to read the package manifest: %v", err)
		return
	}

	if err := boopkg.ValidateName(def.Name); err != nil {
		issues.Errorf("Invalid package name '%s': %v", def.Name, err)
	}
	if err := boopkg.ValidateVersion(def.Version); err != nil {
		issues.Errorf("Invalid package version '%s': %v", def.Version, versionReason(err))
	}
	if rules.ExpectedName != "" && def.Name != rules.ExpectedName {
		issues.Errorf("The package name '%s' does not match the expected name '%s'", def.Name, rules.ExpectedName)
	}
	if rules.ExpectedVersion != "" && def.Version != rules.ExpectedVersion {
		issues.Errorf("The package version '%s' does not match the expected version '%s'", def.Version, rules.ExpectedVersion)
	}
}

func checkEntryPoints(fsys fs.FS, issues *Issues) {
	for _, name := range []string{LibEntryPoint, MainEntryPoint} {
		if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
			return
		}
	}
	issues.Errorf("The package must contain at least one of '%s' or '%s' at its root", LibEntryPoint, MainEntryPoint)
}

func versionReason(err error) error {
	var verErr *boopkg.InvalidVersionError
	if errors.As(err, &verErr) {
		return verErr.Err
	}
	return err
}

func formatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
