// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"net/http"
	"time"

	"gh-release-dl/internal/config"
	"gh-release-dl/internal/download"
	"gh-release-dl/internal/flow"
	"gh-release-dl/internal/github"
	"gh-release-dl/internal/tui"

	"github.com/charmbracelet/log"
)

// retryDelay is the first backoff step between retried API requests.
const retryDelay = 250 * time.Millisecond

type (
	// downloadFlags holds the root command's flag values.
	downloadFlags struct {
		global     globalFlags
		latest     bool
		dir        string
		token      string
		accessible bool
	}

	// downloadParams holds the resolved dependencies of a download run,
	// separated from Cobra for testability.
	downloadParams struct {
		stdout  io.Writer
		stderr  io.Writer
		logger  *log.Logger
		flow    *flow.Flow
		repo    string
		verbose bool
	}
)

// runDownloadCommand resolves configuration and flags into a flow and runs it.
func (a *App) runDownloadCommand(ctx context.Context, repo string, flags downloadFlags) error {
	cfg := a.loadConfig(ctx, flags.global)
	applyDownloadFlags(cfg, flags)

	p := a.newDownloadParams(cfg, flags, repo)
	if err := runDownload(ctx, p); err != nil {
		return reportError(p.stdout, p.stderr, err, repo, p.verbose)
	}
	return nil
}

// applyDownloadFlags lets explicit flags win over configured values.
func applyDownloadFlags(cfg *config.Config, flags downloadFlags) {
	if flags.latest {
		cfg.Mode = config.ModeLatest
	}
	if flags.dir != "" {
		cfg.DownloadDir = flags.dir
	}
	if flags.accessible {
		cfg.UI.Accessible = true
	}
	if flags.global.verbose {
		cfg.UI.Verbose = true
	}
}

func (a *App) newDownloadParams(cfg *config.Config, flags downloadFlags, repo string) downloadParams {
	logger := newLogger(a.stderr, cfg.UI.Verbose)

	token := flags.token
	if token == "" {
		token = a.Getenv("GITHUB_TOKEN")
	}

	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	client := github.NewClient(
		github.WithHTTPClient(httpClient),
		github.WithBaseURL(cfg.APIBaseURL),
		github.WithToken(token),
		github.WithUserAgent("gh-release-dl/"+Version),
		github.WithPagination(cfg.PerPage, cfg.MaxPages),
		github.WithRetries(cfg.Retries, retryDelay),
		github.WithLogger(logger),
	)

	downloader := download.New(client,
		download.WithProgress(download.BarProgress(a.stderr)),
		download.WithOutput(a.stdout),
		download.WithLogger(logger),
	)

	// Mode was validated with the configuration.
	mode, _ := flow.ParseMode(cfg.Mode.String())

	return downloadParams{
		stdout: a.stdout,
		stderr: a.stderr,
		logger: logger,
		flow: &flow.Flow{
			Resolver:   client,
			Picker:     a.NewPicker(pickerConfig(cfg.UI)),
			Downloader: downloader,
			Mode:       mode,
			DestDir:    cfg.DownloadDir,
			Out:        a.stdout,
			Logger:     logger,
		},
		repo:    repo,
		verbose: cfg.UI.Verbose,
	}
}

// pickerConfig derives menu settings from the UI configuration. Accessible
// mode stays on when the terminal already requires it.
func pickerConfig(ui config.UIConfig) tui.Config {
	cfg := tui.DefaultConfig()
	if theme, ok := tui.ParseTheme(ui.Theme.String()); ok {
		cfg.Theme = theme
	}
	if ui.Accessible {
		cfg.Accessible = true
	}
	return cfg
}

// runDownload is the core download logic. All user-facing output goes
// through p.stdout and p.stderr.
func runDownload(ctx context.Context, p downloadParams) error {
	ref, err := github.ParseRepoRef(p.repo)
	if err != nil {
		return err
	}

	p.logger.Debug("resolved repository", "repo", ref.String(), "mode", p.flow.Mode)

	out, err := p.flow.Run(ctx, ref)
	p.logger.Debug("flow finished", "state", out.State, "visited", out.Visited)
	return err
}
