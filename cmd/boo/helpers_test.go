// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ekgame/uiua-boo/internal/config"
	"github.com/ekgame/uiua-boo/internal/testutil"
	"github.com/ekgame/uiua-boo/pkg/archive"
)

const (
	testManifest = `{"name":"ekgame/boo","version":"1.0.0","include":["**/*.ua","boo.json","README.md"]}`
	testMain     = "&p \"hello\"\n"
)

type (
	// staticConfig serves a fixed configuration.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// fakeBrowser records the URLs it was asked to open.
	fakeBrowser struct {
		mu   sync.Mutex
		urls []string
	}

	// fakePrompter answers every confirmation with answer.
	fakePrompter struct {
		answer bool
		asked  int
	}

	testEnv struct {
		app     *App
		dir     string
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
		cfg     *config.Config
		browser *fakeBrowser
	}
)

func (s *staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (b *fakeBrowser) OpenURL(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.urls = append(b.urls, url)
	return nil
}

func (b *fakeBrowser) opened() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.urls...)
}

func (p *fakePrompter) Confirm(string, string) (bool, error) {
	p.asked++
	return p.answer, nil
}

// newTestEnv builds an App rooted at a fresh project directory. The configuration
// polls every millisecond so publish tests finish quickly.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Publish.PollInterval = time.Millisecond
	cfg.Publish.AuthTimeout = 5 * time.Second
	cfg.Publish.JobTimeout = 5 * time.Second

	env := &testEnv{
		dir:     t.TempDir(),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		cfg:     cfg,
		browser: &fakeBrowser{},
	}
	app, err := NewApp(Dependencies{
		Config:   &staticConfig{cfg: cfg},
		Prompter: &fakePrompter{answer: true},
		Browser:  env.browser,
		WorkDir:  env.dir,
		Stdin:    strings.NewReader(""),
		Stdout:   env.stdout,
		Stderr:   env.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	env.app = app

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return env
}

// run executes the command tree with args and returns the exit code and error.
func (e *testEnv) run(args ...string) (int, error) {
	root := newRootCommand(e.app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return exitCode(err), err
}

func (e *testEnv) writeFiles(t *testing.T, files map[string]string) {
	t.Helper()
	testutil.WriteFiles(t, e.dir, files)
}

// buildTestArchive packs files into a package archive.
func buildTestArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, files)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	data, err := archive.Build(dir, names)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return data
}

// fakeRegistry speaks the registry wire protocol. Authorization is decided on the
// first poll and the job finishes on the first poll.
type fakeRegistry struct {
	mu        sync.Mutex
	authState string
	jobResult string
	uploads   int
	calls     []string
}

func newFakeRegistry(authState, jobResult string) *fakeRegistry {
	return &fakeRegistry{authState: authState, jobResult: jobResult}
}

// start serves the registry and returns its API base URL.
func (f *fakeRegistry) start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/"
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	write := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := r.Header.Get("Authorization") == "Bearer token"

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/request":
		write(http.StatusOK, map[string]string{
			"private_code": "priv",
			"public_code":  "PUB",
			"expires_at":   "2030-01-01T00:00:00Z",
			"request_url":  "https://uiua.boo/approve/PUB",
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/auth/request/priv":
		body := map[string]any{"status": f.authState}
		if f.authState == "APPROVED" {
			body["access_token"] = "token"
		}
		write(http.StatusOK, body)
	case r.Method == http.MethodDelete && r.URL.Path == "/api/auth/request/priv":
		write(http.StatusOK, map[string]string{"status": "deleted"})
	case !authed:
		write(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	case r.Method == http.MethodPost && r.URL.Path == "/api/publish":
		write(http.StatusOK, map[string]any{"id": 7, "scope": "ekgame", "name": "boo", "version": "1.0.0", "status": "PENDING"})
	case r.Method == http.MethodPost && r.URL.Path == "/api/publish/7/upload":
		f.uploads++
		write(http.StatusOK, map[string]any{"id": 7, "status": "QUEUED"})
	case r.Method == http.MethodGet && r.URL.Path == "/api/publish/7":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.jobResult))
	default:
		write(http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (f *fakeRegistry) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func (f *fakeRegistry) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

const (
	jobSucceeded = `{"id":7,"status":"COMPLETED","result":{"type":"success"}}`
	jobRejected  = `{"id":7,"status":"FAILED","result":{"type":"failure","errors":["Version 1.0.0 already exists"]}}`
)
