// SPDX-License-Identifier: MPL-2.0

// Package flow drives the interactive release-then-asset selection loop and
// hands the chosen asset to the downloader.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gh-release-dl/internal/download"
	"gh-release-dl/internal/github"
	"gh-release-dl/internal/tui"

	"github.com/charmbracelet/log"
)

const (
	releaseMenuTitle       = "🚀 Select a release version (or Exit)"
	assetMenuTitle         = "📦 Select the file to download (or Back)"
	latestAssetMenuTitleFn = "📦 Select the file to download from %s (or Exit)"
)

// ErrNoAssets is returned in latest mode when the latest release has no assets.
var ErrNoAssets = errors.New("no downloadable files found")

type (
	// State is a position in the selection state machine.
	State int

	// Mode selects between browsing every release and going straight to the latest one.
	Mode string

	// Downloader saves one asset into a directory.
	Downloader interface {
		Download(ctx context.Context, assetURL, destDir string) (*download.Result, error)
	}

	// Outcome summarizes a finished Run. Release, Asset and Result are set only
	// as far as the flow progressed.
	Outcome struct {
		State   State
		Release *github.Release
		Asset   *github.Asset
		Result  *download.Result
		// Visited lists every state entered, in order, starting with the first menu.
		Visited []State
	}

	// Flow wires a release source, a menu picker and a downloader together.
	Flow struct {
		Resolver   github.Resolver
		Picker     tui.Picker
		Downloader Downloader
		Mode       Mode
		DestDir    string
		// Out receives the user-facing status lines.
		Out    io.Writer
		Logger *log.Logger
	}
)

const (
	// ChoosingRelease shows the release menu.
	ChoosingRelease State = iota
	// ChoosingAsset shows the asset menu of the chosen release.
	ChoosingAsset
	// Downloading transfers the chosen asset.
	Downloading
	// Done means the asset was saved or already present.
	Done
	// Exited means the user left through Exit or an interrupt.
	Exited
)

const (
	// ModeAll lists every release and loops until an asset is downloaded or the user exits.
	ModeAll Mode = "all"
	// ModeLatest offers only the assets of the latest release.
	ModeLatest Mode = "latest"
)

func (s State) String() string {
	switch s {
	case ChoosingRelease:
		return "choosing-release"
	case ChoosingAsset:
		return "choosing-asset"
	case Downloading:
		return "downloading"
	case Done:
		return "done"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseMode validates a mode name. The empty string selects ModeAll.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, "":
		return ModeAll, nil
	case ModeLatest:
		return ModeLatest, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, ModeAll, ModeLatest)
	}
}

// Run executes the flow for ref until an asset is downloaded, the user
// exits, or an error occurs.
//
// An interrupted prompt returns tui.ErrCancelled with Outcome.State Exited.
// Choosing Exit returns a nil error with Outcome.State Exited. Every other
// error also leaves Outcome.State Exited; only a download sets Done.
func (f *Flow) Run(ctx context.Context, ref github.RepoRef) (Outcome, error) {
	f.init()

	if f.Mode == ModeLatest {
		return f.runLatest(ctx, ref)
	}
	return f.runAll(ctx, ref)
}

func (f *Flow) init() {
	if f.Out == nil {
		f.Out = io.Discard
	}
	if f.Logger == nil {
		f.Logger = log.New(io.Discard)
	}
}

func (f *Flow) runAll(ctx context.Context, ref github.RepoRef) (Outcome, error) {
	var out Outcome

	releases, err := f.Resolver.ListReleases(ctx, ref)
	if err != nil {
		return f.failBeforeMenu(out, err)
	}

	var (
		release *github.Release
		asset   *github.Asset
	)

	state := ChoosingRelease
	for {
		out.Visited = append(out.Visited, state)
		f.Logger.Debug("state", "state", state)

		switch state {
		case ChoosingRelease:
			choice, pickErr := tui.Pick(ctx, f.Picker, releaseMenu(releases))
			if pickErr != nil {
				return f.failed(out, pickErr)
			}
			switch choice.Kind {
			case tui.Cancelled:
				return f.cancelled(out)
			case tui.NavigateBack:
				fmt.Fprintln(f.Out, "Exiting program.")
				out.State = Exited
				out.Visited = append(out.Visited, Exited)
				return out, nil
			case tui.Selected:
				release = &releases[choice.Index]
				out.Release = release
				if len(release.Assets) == 0 {
					fmt.Fprintf(f.Out, "No downloadable files found for release '%s'. Please select another release.\n", release.TagName)
					continue
				}
				state = ChoosingAsset
			}

		case ChoosingAsset:
			choice, pickErr := tui.Pick(ctx, f.Picker, assetMenu(release.Assets, assetMenuTitle, tui.NavBack))
			if pickErr != nil {
				return f.failed(out, pickErr)
			}
			switch choice.Kind {
			case tui.Cancelled:
				return f.cancelled(out)
			case tui.NavigateBack:
				fmt.Fprintln(f.Out, "Returning to release selection...")
				state = ChoosingRelease
			case tui.Selected:
				asset = &release.Assets[choice.Index]
				out.Asset = asset
				state = Downloading
			}

		case Downloading:
			return f.download(ctx, out, asset)

		default:
			return f.failed(out, fmt.Errorf("unexpected state %s", state))
		}
	}
}

func (f *Flow) runLatest(ctx context.Context, ref github.RepoRef) (Outcome, error) {
	var out Outcome

	release, err := f.Resolver.LatestRelease(ctx, ref)
	if err != nil {
		return f.failBeforeMenu(out, err)
	}
	out.Release = release

	if len(release.Assets) == 0 {
		fmt.Fprintf(f.Out, "No downloadable files found for release '%s'.\n", release.TagName)
		out.State = Exited
		return out, fmt.Errorf("release %s: %w", release.TagName, ErrNoAssets)
	}

	out.Visited = append(out.Visited, ChoosingAsset)
	title := fmt.Sprintf(latestAssetMenuTitleFn, release.TagName)
	choice, err := tui.Pick(ctx, f.Picker, assetMenu(release.Assets, title, tui.NavExit))
	if err != nil {
		return f.failed(out, err)
	}

	switch choice.Kind {
	case tui.Cancelled:
		return f.cancelled(out)
	case tui.NavigateBack:
		fmt.Fprintln(f.Out, "Exiting program.")
		out.State = Exited
		out.Visited = append(out.Visited, Exited)
		return out, nil
	}

	asset := &release.Assets[choice.Index]
	out.Asset = asset
	out.Visited = append(out.Visited, Downloading)
	return f.download(ctx, out, asset)
}

func (f *Flow) download(ctx context.Context, out Outcome, asset *github.Asset) (Outcome, error) {
	f.Logger.Debug("downloading asset", "name", asset.Name, "url", asset.BrowserDownloadURL)

	res, err := f.Downloader.Download(ctx, asset.BrowserDownloadURL, f.DestDir)
	if err != nil {
		if ctx.Err() != nil {
			return f.cancelled(out)
		}
		return f.failed(out, err)
	}

	out.Result = res
	out.State = Done
	out.Visited = append(out.Visited, Done)
	return out, nil
}

func (f *Flow) cancelled(out Outcome) (Outcome, error) {
	out.State = Exited
	out.Visited = append(out.Visited, Exited)
	return out, tui.ErrCancelled
}

// failed ends the flow on an error raised after the first menu was shown.
func (f *Flow) failed(out Outcome, err error) (Outcome, error) {
	out.State = Exited
	out.Visited = append(out.Visited, Exited)
	return out, err
}

func (f *Flow) failBeforeMenu(out Outcome, err error) (Outcome, error) {
	out.State = Exited
	if errors.Is(err, github.ErrNoReleases) {
		fmt.Fprintln(f.Out, "No releases found for this repository.")
	}
	return out, err
}

func releaseMenu(releases []github.Release) tui.Menu[github.Release] {
	return tui.Menu[github.Release]{
		Title: releaseMenuTitle,
		Items: releases,
		Label: func(r github.Release) string { return r.TagName },
		Nav:   tui.NavExit,
	}
}

func assetMenu(assets []github.Asset, title string, nav tui.NavOption) tui.Menu[github.Asset] {
	return tui.Menu[github.Asset]{
		Title: title,
		Items: assets,
		Label: func(a github.Asset) string { return a.Name },
		Nav:   nav,
	}
}
