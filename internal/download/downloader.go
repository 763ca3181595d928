// SPDX-License-Identifier: MPL-2.0

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gh-release-dl/internal/github"

	"github.com/charmbracelet/log"
)

const (
	// ChunkSize is the number of bytes read from the response per iteration.
	ChunkSize = 1024

	// FileMode is the permission of saved files.
	FileMode fs.FileMode = 0o644
)

// errDestinationExists reports that another process created the destination
// while the asset was being transferred.
var errDestinationExists = errors.New("destination appeared during download")

type (
	// Fetcher opens a streaming download of an asset URL.
	Fetcher interface {
		DownloadAsset(ctx context.Context, assetURL string) (*github.AssetStream, error)
	}

	// Result describes a finished Download call.
	Result struct {
		Path    string // destDir joined with the derived file name
		Skipped bool   // the file already existed and nothing was fetched
		Bytes   int64  // bytes written; zero when skipped
	}

	// Downloader saves assets into a destination directory.
	Downloader struct {
		fetcher  Fetcher
		progress ProgressFunc
		out      io.Writer
		logger   *log.Logger
	}

	// Option configures a Downloader during construction.
	Option func(*Downloader)
)

// WithProgress sets the progress indicator factory. The default renders nothing.
func WithProgress(p ProgressFunc) Option {
	return func(d *Downloader) {
		if p != nil {
			d.progress = p
		}
	}
}

// WithOutput sets where status messages are printed.
func WithOutput(w io.Writer) Option {
	return func(d *Downloader) {
		if w != nil {
			d.out = w
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Downloader) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Downloader that fetches through f.
func New(f Fetcher, opts ...Option) *Downloader {
	d := &Downloader{
		fetcher:  f,
		progress: NoProgress(),
		out:      io.Discard,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FileName returns the local file name for assetURL: its final path segment,
// percent-decoded, with any query or fragment ignored.
func FileName(assetURL string) (string, error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFileName, err)
	}

	name, err := url.PathUnescape(path.Base(u.EscapedPath()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFileName, err)
	}

	switch {
	case name == "", name == ".", name == "..", name == "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, assetURL)
	case strings.ContainsAny(name, `/\`):
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, assetURL)
	}
	return name, nil
}

// Download saves assetURL into destDir under the name returned by FileName.
//
// An existing file of that name is left untouched and no request is made.
// Otherwise destDir is created if needed and the body is streamed in ChunkSize
// pieces into a temporary file, which replaces nothing until the transfer has
// fully succeeded. Network failures are returned as *github.NetworkError and
// filesystem failures as *IOError.
func (d *Downloader) Download(ctx context.Context, assetURL, destDir string) (*Result, error) {
	name, err := FileName(assetURL)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(destDir, name)

	if _, statErr := os.Stat(dest); statErr == nil {
		fmt.Fprintf(d.out, "File %s already exists. Skipping download.\n", name)
		d.logger.Debug("skipping existing file", "path", dest)
		return &Result{Path: dest, Skipped: true}, nil
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, &IOError{Op: "stat", Path: dest, Err: statErr}
	}

	if destDir != "" {
		if mkErr := os.MkdirAll(destDir, 0o755); mkErr != nil {
			return nil, &IOError{Op: "create directory", Path: destDir, Err: mkErr}
		}
	}

	stream, err := d.fetcher.DownloadAsset(ctx, assetURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stream.Body.Close() }() // read-only response body

	written, err := d.writeAtomically(ctx, dest, name, stream)
	if errors.Is(err, errDestinationExists) {
		fmt.Fprintf(d.out, "File %s already exists. Skipping download.\n", name)
		d.logger.Debug("destination created during transfer, keeping it", "path", dest)
		return &Result{Path: dest, Skipped: true}, nil
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(d.out, "Download complete: %s\n", dest)
	d.logger.Debug("download finished", "path", dest, "bytes", written)

	return &Result{Path: dest, Bytes: written}, nil
}

// writeAtomically copies the stream into a temporary file beside dest and
// publishes it under dest. The temporary file is removed on any failure.
func (d *Downloader) writeAtomically(ctx context.Context, dest, name string, stream *github.AssetStream) (written int64, err error) {
	dir := filepath.Dir(dest)

	tmp, err := os.CreateTemp(dir, "."+name+".part-*")
	if err != nil {
		return 0, &IOError{Op: "create temp file", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	total := stream.ContentLength
	if total <= 0 {
		total = -1
	}
	bar := d.progress(total, "Downloading "+name)

	written, err = copyChunks(ctx, tmp, stream.Body, bar, tmpName)
	if err != nil {
		return 0, err
	}
	_ = bar.Finish()

	if err = tmp.Chmod(FileMode); err != nil {
		return 0, &IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return 0, &IOError{Op: "sync", Path: tmpName, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return 0, &IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err = publish(tmpName, dest); err != nil {
		return 0, err
	}

	return written, nil
}

// publish makes tmpName visible as dest without replacing a file that
// appeared at dest in the meantime, and removes tmpName on success.
// A hard link fails with fs.ErrExist instead of overwriting; filesystems
// without hard links fall back to a checked rename.
func publish(tmpName, dest string) error {
	linkErr := os.Link(tmpName, dest)
	if linkErr == nil {
		_ = os.Remove(tmpName)
		return nil
	}
	if errors.Is(linkErr, fs.ErrExist) {
		return errDestinationExists
	}

	if _, statErr := os.Lstat(dest); statErr == nil {
		return errDestinationExists
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return &IOError{Op: "rename", Path: dest, Err: err}
	}
	return nil
}

// copyChunks streams src into dst ChunkSize bytes at a time, advancing bar by
// each chunk. Read failures are network errors; write failures are IOErrors.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, bar Progress, dstPath string) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return written, &github.NetworkError{Op: "download asset", Err: ctxErr}
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, &IOError{Op: "write", Path: dstPath, Err: writeErr}
			}
			written += int64(n)
			_ = bar.Add(n)
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				readErr = ctxErr
			}
			return written, &github.NetworkError{Op: "download asset", Err: readErr}
		}
	}
}
