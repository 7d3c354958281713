// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekgame/uiua-boo/pkg/boopkg"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantName string
	}{
		{"default name", nil, boopkg.DefaultName},
		{"explicit name", []string{"ekgame/boo"}, "ekgame/boo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			code, err := env.run(append([]string{"init"}, tt.args...)...)
			if code != ExitOK {
				t.Fatalf("exit code = %d, err = %v", code, err)
			}
			if !strings.Contains(env.stdout.String(), "boo.json created successfully.") {
				t.Errorf("stdout = %q", env.stdout.String())
			}

			def, err := boopkg.Load(env.dir)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if def.Name != tt.wantName || def.Version != boopkg.DefaultVersion {
				t.Errorf("manifest = %+v", def)
			}
		})
	}
}

func TestInit_InvalidName(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.run("init", "no-separator")
	if code != ExitFailure {
		t.Fatalf("exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(env.stdout.String(), "Invalid package name 'no-separator'") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if _, err := os.Stat(filepath.Join(env.dir, boopkg.ManifestFileName)); !os.IsNotExist(err) {
		t.Errorf("boo.json was written for an invalid name (stat err = %v)", err)
	}
}

func TestInit_ExistingManifest(t *testing.T) {
	env := newTestEnv(t)
	env.writeFiles(t, map[string]string{"boo.json": testManifest})

	code, _ := env.run("init")
	if code != ExitFailure {
		t.Fatalf("exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(env.stdout.String(), "boo.json already exists. Skipping initialization.") {
		t.Errorf("stdout = %q", env.stdout.String())
	}

	data, err := os.ReadFile(filepath.Join(env.dir, "boo.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testManifest {
		t.Errorf("boo.json was overwritten: %s", data)
	}
}
