// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gh-release-dl/internal/download"
	"gh-release-dl/internal/flow"
	"gh-release-dl/internal/github"
	"gh-release-dl/internal/issue"
	"gh-release-dl/internal/tui"
)

// isCancellation reports whether err only means the user stopped the program.
func isCancellation(err error) bool {
	return errors.Is(err, tui.ErrCancelled) || errors.Is(err, context.Canceled)
}

// classifyError maps a download failure to an actionable error and an exit code.
// repo is the repository reference as the user typed it.
func classifyError(err error, repo string) (*issue.ActionableError, int) {
	ec := issue.NewErrorContext().Wrap(err)

	var (
		rateErr   *github.RateLimitError
		netErr    *github.NetworkError
		ioErr     *download.IOError
		selectErr *tui.SelectionError
	)

	switch {
	case errors.Is(err, github.ErrInvalidRepoRef):
		return ec.WithOperation("parse repository reference").
			WithResource(repo).
			WithSuggestions("Use the owner/name form, e.g. cli/cli", "Or pass the repository URL, e.g. https://github.com/cli/cli").
			WithIssue(issue.InvalidRepoRefId).
			Build(), ExitUserError

	case errors.As(err, &rateErr):
		return ec.WithOperation("query").
			WithResource("the GitHub API").
			WithSuggestions("Set GITHUB_TOKEN or pass --token for a higher rate limit", "Wait until the limit resets and try again").
			WithIssue(issue.RateLimitedId).
			Build(), ExitUserError

	case errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound:
		return ec.WithOperation("find repository").
			WithResource(repo).
			WithSuggestions("Check the owner and repository name for typos", "Private repositories need a token with read access").
			WithIssue(issue.RepositoryNotFoundId).
			Build(), ExitUserError

	case errors.As(err, &netErr) && netErr.IsClientError():
		return ec.WithOperation(netErr.Op).
			WithResource(repo).
			WithSuggestion("Check that your token is valid and has access to the repository").
			WithIssue(issue.NetworkFailedId).
			Build(), ExitUserError

	case errors.Is(err, github.ErrNetwork):
		return ec.WithOperation("reach GitHub for").
			WithResource(repo).
			WithSuggestions("Check your network connection and try again", "If behind a proxy, set HTTPS_PROXY").
			WithIssue(issue.NetworkFailedId).
			Build(), ExitFailure

	case errors.Is(err, github.ErrNoReleases):
		return ec.WithOperation("list releases of").
			WithResource(repo).
			WithSuggestion("Check that the repository publishes GitHub releases rather than only tags").
			WithIssue(issue.NoReleasesId).
			Build(), ExitUserError

	case errors.Is(err, flow.ErrNoAssets):
		return ec.WithOperation("list files of the latest release of").
			WithResource(repo).
			WithSuggestion("Run without --latest to choose an older release").
			WithIssue(issue.NoAssetsId).
			Build(), ExitUserError

	case errors.As(err, &ioErr):
		return ec.WithOperation("save").
			WithResource(ioErr.Path).
			WithSuggestions("Check that the directory is writable", "Check the free disk space", "Choose another directory with --dir").
			WithIssue(issue.FileWriteFailedId).
			Build(), ExitFailure

	case errors.Is(err, download.ErrInvalidFileName):
		return ec.WithOperation("derive a file name for").
			WithResource(repo).
			WithIssue(issue.FileWriteFailedId).
			Build(), ExitFailure

	case errors.As(err, &selectErr):
		return ec.WithOperation("resolve the menu selection").
			WithIssue(issue.SelectionFailedId).
			Build(), ExitFailure

	default:
		return ec.WithOperation("download a release asset of").
			WithResource(repo).
			Build(), ExitFailure
	}
}

// reportError prints err for the user and returns the error the command
// should exit with. Cancellation is reported on stdout and exits cleanly.
func reportError(stdout, stderr io.Writer, err error, repo string, verbose bool) error {
	if isCancellation(err) {
		fmt.Fprintln(stdout, "User cancelled. Exiting.")
		return nil
	}

	ae, code := classifyError(err, repo)
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), ae.Format(verbose))

	if verbose {
		renderIssue(stderr, ae.Issue())
	}

	return &ExitError{Code: code, Err: err}
}

// renderIssue prints the catalog entry for an issue, if any.
func renderIssue(w io.Writer, entry *issue.Issue) {
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// issueOf returns the catalog entry linked to err, if any.
func issueOf(err error) *issue.Issue {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Issue()
	}
	return nil
}
