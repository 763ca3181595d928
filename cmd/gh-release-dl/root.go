// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for gh-release-dl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalFlags are shared by the root command and its subcommands.
type globalFlags struct {
	configPath string
	verbose    bool
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	var (
		global globalFlags
		dl     downloadFlags
	)

	rootCmd := &cobra.Command{
		Use:   "gh-release-dl <owner/name | repository URL>",
		Short: "Interactively download GitHub release assets",
		Long: TitleStyle.Render("gh-release-dl") + SubtitleStyle.Render(" - Interactively download GitHub release assets") + `

gh-release-dl lists the releases of a GitHub repository, lets you pick a
release and one of its files, and saves that file into the current
directory (or --dir). Files that already exist are never overwritten.

Set GITHUB_TOKEN (or pass --token) for higher API rate limits.`,
		Example: `  # Browse every release of a repository
  gh-release-dl cli/cli

  # A repository URL works too
  gh-release-dl https://github.com/cli/cli

  # Only offer the files of the latest release, saved into ./downloads
  gh-release-dl --latest -d downloads cli/cli`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			dl.global = global
			return app.runDownloadCommand(cmd.Context(), args[0], dl)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "config file (default is $HOME/.config/gh-release-dl/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.Flags().BoolVar(&dl.latest, "latest", false, "only offer the files of the latest release")
	rootCmd.Flags().StringVarP(&dl.dir, "dir", "d", "", "directory to save the file into (default is the current directory)")
	rootCmd.Flags().StringVar(&dl.token, "token", "", "GitHub token (default is $GITHUB_TOKEN)")
	rootCmd.Flags().BoolVar(&dl.accessible, "accessible", false, "use plain-text prompts suitable for screen readers")

	rootCmd.AddCommand(newConfigCommand(app, &global))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// fangOptions configures fang for the root command.
// fang overrides rootCmd.Version, so the version is passed explicitly.
func fangOptions() []fang.Option {
	return []fang.Option{
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	}
}

// errorHandler prints errors that were not already reported. An *ExitError
// carries a failure that reportError has written to stderr.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	if err := fang.Execute(context.Background(), newRootCommand(app), fangOptions()...); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
