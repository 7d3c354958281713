// SPDX-License-Identifier: MPL-2.0

package boopkg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ManifestFileName is the fixed name of the package manifest at a project or archive root.
	ManifestFileName = "boo.json"

	// DefaultName is used by Scaffold when no name is given.
	DefaultName = "foo/bar"
	// DefaultVersion is the version written into a freshly scaffolded manifest.
	DefaultVersion = "0.1.0"
)

var (
	// ErrManifestNotFound is returned when boo.json does not exist.
	ErrManifestNotFound = errors.New("package manifest not found")

	// ErrManifestExists is returned by Scaffold when boo.json already exists.
	ErrManifestExists = errors.New("package manifest already exists")

	// DefaultIncludes are the include patterns written into a freshly scaffolded manifest.
	DefaultIncludes = []string{"**/*.ua", ManifestFileName, "README.md", "LICENSE"}
)

// PackageDefinition is the parsed content of boo.json.
type PackageDefinition struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Include []string `json:"include"`
}

// Parse decodes a manifest document.
func Parse(data []byte) (*PackageDefinition, error) {
	var def PackageDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestFileName, err)
	}
	return &def, nil
}

// ParseFS reads and decodes the manifest at the root of fsys.
func ParseFS(fsys fs.FS) (*PackageDefinition, error) {
	data, err := fs.ReadFile(fsys, ManifestFileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrManifestNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", ManifestFileName, err)
	}
	return Parse(data)
}

// Load reads the manifest from the project directory dir.
func Load(dir string) (*PackageDefinition, error) {
	return ParseFS(os.DirFS(dir))
}

// Scaffold writes a new manifest for name into dir. An empty name falls back to
// DefaultName. The name must be valid and no manifest may exist yet.
func Scaffold(dir, name string) (*PackageDefinition, error) {
	if name == "" {
		name = DefaultName
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, ManifestFileName)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrManifestExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	}

	def := &PackageDefinition{
		Name:    name,
		Version: DefaultVersion,
		Include: append([]string(nil), DefaultIncludes...),
	}
	if err := def.Save(path); err != nil {
		return nil, err
	}
	return def, nil
}

// Marshal encodes the definition as indented JSON with a trailing newline.
func (d *PackageDefinition) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ManifestFileName, err)
	}
	return buf.Bytes(), nil
}

// Save writes the definition to path.
func (d *PackageDefinition) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Scope returns the part of the name before the separator.
func (d *PackageDefinition) Scope() string {
	scope, _, _ := SplitName(d.Name)
	return scope
}

// PackageName returns the part of the name after the separator.
func (d *PackageDefinition) PackageName() string {
	_, pkg, _ := SplitName(d.Name)
	return pkg
}

// Validate reports the naming and versioning problems of the definition, if any.
func (d *PackageDefinition) Validate() error {
	return errors.Join(ValidateName(d.Name), ValidateVersion(d.Version))
}

// FileName is the archive base name without extension: "<scope>-<name>-<version>".
func (d *PackageDefinition) FileName() string {
	return strings.ReplaceAll(d.Name, NameSeparator, "-") + "-" + d.Version
}

// ArchiveFileName is FileName with the ".tar.gz" extension.
func (d *PackageDefinition) ArchiveFileName() string {
	return d.FileName() + ".tar.gz"
}

// Permission is the registry permission required to upload this version.
func (d *PackageDefinition) Permission() string {
	return fmt.Sprintf("package.upload-new-version:%s@%s", d.Name, d.Version)
}
