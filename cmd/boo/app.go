// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pkg/browser"
	"golang.org/x/term"

	"github.com/ekgame/uiua-boo/internal/config"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer; every command handler receives an App reference.
	App struct {
		Config   ConfigProvider
		Prompter Prompter
		Browser  BrowserOpener
		// WorkDir is the package project directory.
		WorkDir string

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// Set by the root command before any subcommand runs.
		cfg     *config.Config
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Prompter Prompter
		Browser  BrowserOpener
		WorkDir  string
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Prompter asks the user to confirm an action.
	Prompter interface {
		Confirm(title, description string) (bool, error)
	}

	// BrowserOpener opens a URL in the user's browser.
	BrowserOpener interface {
		OpenURL(url string) error
	}

	// huhPrompter renders prompts with charmbracelet/huh.
	huhPrompter struct {
		in  io.Reader
		out io.Writer
	}

	// systemBrowser opens URLs with pkg/browser.
	systemBrowser struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Prompter == nil {
		deps.Prompter = &huhPrompter{in: deps.Stdin, out: deps.Stderr}
	}
	if deps.Browser == nil {
		deps.Browser = systemBrowser{}
	}
	if deps.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		deps.WorkDir = wd
	}

	return &App{
		Config:   deps.Config,
		Prompter: deps.Prompter,
		Browser:  deps.Browser,
		WorkDir:  deps.WorkDir,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		cfg:      config.DefaultConfig(),
	}, nil
}

// loadConfig loads configuration for the current invocation. A broken file named
// with --config is fatal; any other load failure falls back to defaults with a
// warning so commands stay usable.
func (a *App) loadConfig(ctx context.Context, cfgFile string) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: cfgFile,
		BaseDir:        a.WorkDir,
	})
	if err == nil {
		a.cfg = cfg
		return nil
	}
	if cfgFile != "" {
		return err
	}

	a.cfg = config.DefaultConfig()
	fmt.Fprintln(a.stderr, WarningStyle.Render(tagWarning)+" "+formatErrorForDisplay(err, a.verbose))
	fmt.Fprintln(a.stderr, SubtitleStyle.Render("Using the default configuration."))
	return nil
}

// interactive reports whether stdin is a terminal a prompt can be shown on.
func (a *App) interactive() bool {
	f, ok := a.stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Confirm asks a yes/no question; the default answer is yes.
func (p *huhPrompter) Confirm(title, description string) (bool, error) {
	ok := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Publish").
				Negative("Cancel").
				Value(&ok),
		),
	).WithInput(p.in).WithOutput(p.out)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// OpenURL launches the system browser. The launcher's own output is kept off the
// terminal so it cannot interleave with progress messages.
func (systemBrowser) OpenURL(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	slog.Debug("opening browser", "url", url)
	return browser.OpenURL(url)
}
