// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"gh-release-dl/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `gh-release-dl config` command tree.
func newConfigCommand(app *App, global *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gh-release-dl configuration",
		Long: `Manage gh-release-dl configuration.

Configuration is stored in:
  - Linux: ~/.config/gh-release-dl/config.cue
  - macOS: ~/Library/Application Support/gh-release-dl/config.cue
  - Windows: %APPDATA%\gh-release-dl\config.cue

Every key can be overridden with a GH_RELEASE_DL_* environment variable,
e.g. GH_RELEASE_DL_MODE=latest or GH_RELEASE_DL_UI_THEME=dracula.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, *global, config.Format(format))
		},
	}
	showCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format: cue, toml or json")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Configuration file:"), path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, global globalFlags, format config.Format) error {
	cfg, path, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: global.configPath})
	if err != nil {
		if global.verbose {
			renderIssue(app.stderr, issueOf(err))
		}
		return err
	}

	out, err := config.Render(cfg, format)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(app.stderr, SubtitleStyle.Render("# source: "+source))
	fmt.Fprint(app.stdout, out)
	return nil
}

func showConfigPath(w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
