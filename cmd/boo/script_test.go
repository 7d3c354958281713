// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"boo": func() int { return Run(context.Background(), os.Args[1:]) },
	}))
}

// TestScript runs the CLI scripts in testdata. Each script gets an isolated
// configuration home and a fake registry that approves every request.
func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			srv := httptest.NewServer(newFakeRegistry("APPROVED", jobSucceeded))
			env.Defer(srv.Close)

			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("BOO_API_URL", srv.URL+"/api/")
			env.Setenv("BOO_PUBLISH_POLL_INTERVAL", "10ms")
			env.Setenv("BOO_PUBLISH_OPEN_BROWSER", "false")
			return nil
		},
		ContinueOnError: true,
	})
}
