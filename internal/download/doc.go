// SPDX-License-Identifier: MPL-2.0

// Package download saves release assets to the local filesystem.
//
// A Downloader derives the local file name from the asset URL, skips the
// transfer when that file already exists, and otherwise streams the body in
// fixed-size chunks into a temporary file that is renamed into place once the
// transfer completes. A progress indicator advances by each chunk.
//
// Files:
//   - downloader.go: Downloader, Result, FileName and the transfer loop
//   - progress.go: Progress indicator abstraction backed by progressbar
//   - errors.go: IOError, ErrIO and ErrInvalidFileName
package download
