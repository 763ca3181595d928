// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"gh-release-dl/internal/config"
	"gh-release-dl/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and delegate to it, so tests can swap the network, the prompts
	// and the output streams.
	App struct {
		Config     config.Provider
		NewPicker  func(tui.Config) tui.Picker
		HTTPClient *http.Client
		Getenv     func(string) string
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// NewPicker builds the menu implementation from the resolved UI settings.
		NewPicker func(tui.Config) tui.Picker
		// HTTPClient is used for every request; nil builds one from http_timeout.
		HTTPClient *http.Client
		Getenv     func(string) string
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		NewPicker:  deps.NewPicker,
		HTTPClient: deps.HTTPClient,
		Getenv:     deps.Getenv,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}

	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewPicker == nil {
		app.NewPicker = func(cfg tui.Config) tui.Picker { return tui.NewHuhPicker(cfg) }
	}
	if app.Getenv == nil {
		app.Getenv = os.Getenv
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}

	return app
}

// loadConfig returns the effective configuration. Load failures are shown
// as a warning and the defaults are used instead.
func (a *App) loadConfig(ctx context.Context, global globalFlags) *config.Config {
	cfg, _, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: global.configPath})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, global.verbose))
		return config.DefaultConfig()
	}
	return cfg
}
