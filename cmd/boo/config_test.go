// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekgame/uiua-boo/internal/config"
	"github.com/ekgame/uiua-boo/internal/testutil"
)

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.API.URL = "https://registry.example.com/api/"

	if code, err := env.run("config", "show"); code != ExitOK {
		t.Fatalf("exit code = %d, err = %v", code, err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "// Source: (using defaults)") {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(out, `"https://registry.example.com/api/"`) {
		t.Errorf("effective API URL not shown: %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)
	cfgDir, cleanup := testutil.SetConfigHome(t, t.TempDir(), config.AppName)
	defer cleanup()

	if code, err := env.run("config", "init"); code != ExitOK {
		t.Fatalf("exit code = %d, err = %v", code, err)
	}
	path := filepath.Join(cfgDir, config.ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Created default configuration at "+path) {
		t.Errorf("stdout = %q", env.stdout.String())
	}

	env.stdout.Reset()
	if code, err := env.run("config", "init"); code != ExitOK {
		t.Fatalf("second init: exit code = %d, err = %v", code, err)
	}
	if !strings.Contains(env.stdout.String(), "Configuration already exists") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t)
	cfgDir, cleanup := testutil.SetConfigHome(t, t.TempDir(), config.AppName)
	defer cleanup()

	if code, err := env.run("config", "path"); code != ExitOK {
		t.Fatalf("exit code = %d, err = %v", code, err)
	}
	out := env.stdout.String()
	for _, want := range []string{
		filepath.Join(cfgDir, config.ConfigFileName),
		filepath.Join(env.dir, config.LocalConfigFileName),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout does not contain %q: %q", want, out)
		}
	}
}
