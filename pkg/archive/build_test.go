// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return root
}

func archiveNames(t *testing.T, data []byte) []string {
	t.Helper()

	fsys, err := Open(data, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	var names []string
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir() error = %v", err)
	}
	return names
}

func TestBuild_DeduplicatesAndPreservesContent(t *testing.T) {
	t.Parallel()

	root := writeProject(t, map[string]string{
		"boo.json":    validManifest,
		"main.ua":     "main",
		"src/util.ua": "util",
	})

	data, err := Build(root, []string{"main.ua", "src/util.ua", "boo.json", "main.ua", filepath.Join(root, "src", "util.ua")})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	names := archiveNames(t, data)
	if want := []string{"boo.json", "main.ua", "src/util.ua"}; !slices.Equal(names, want) {
		t.Fatalf("archive entries = %q, want %q", names, want)
	}

	fsys, err := Open(data, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	body, err := fs.ReadFile(fsys, "src/util.ua")
	if err != nil || string(body) != "util" {
		t.Errorf("ReadFile(src/util.ua) = %q, %v", body, err)
	}
}

func TestBuild_IsDeterministic(t *testing.T) {
	t.Parallel()

	root := writeProject(t, map[string]string{"boo.json": validManifest, "main.ua": "main"})

	first, err := Build(root, []string{"main.ua", "boo.json"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build(root, []string{"boo.json", "main.ua"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Build() produced different archives for the same file set")
	}
}

func TestBuild_Failures(t *testing.T) {
	t.Parallel()

	root := writeProject(t, map[string]string{"main.ua": "main"})

	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"missing file", []string{"main.ua", "gone.ua"}, "gone.ua"},
		{"outside root", []string{"../escape.ua"}, "outside of"},
		{"root itself", []string{"."}, "outside of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := Build(root, tt.files)
			if err == nil {
				t.Fatalf("Build() = %d bytes, want error", len(data))
			}
			if data != nil {
				t.Error("Build() must not return a partial archive")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestBuildThenValidate_RoundTrip(t *testing.T) {
	t.Parallel()

	root := writeProject(t, map[string]string{
		"boo.json":     validManifest,
		"main.ua":      "&p \"hi\"",
		"lib/thing.ua": "x",
		"notes.txt":    "not included",
	})

	for range 3 {
		files, collectIssues := Collect(root, []string{"**/*.ua", "boo.json"})
		if len(collectIssues) != 0 {
			t.Fatalf("Collect() issues = %q", messages(collectIssues))
		}
		data, err := Build(root, files)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if issues := Validate(data, DefaultRules()); len(issues) != 0 {
			t.Fatalf("Validate() = %q, want no issues", messages(issues))
		}
	}
}
