// SPDX-License-Identifier: MPL-2.0

package download

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is matched by every local filesystem failure during a download.
	ErrIO = errors.New("file write failed")

	// ErrInvalidFileName is returned when an asset URL does not end in a usable file name.
	ErrInvalidFileName = errors.New("asset URL has no usable file name")
)

// IOError describes a filesystem failure while preparing or writing a download.
type IOError struct {
	Op   string // e.g. "create directory", "write", "rename"
	Path string
	Err  error
}

// Error formats the failure for display.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both ErrIO and the underlying error to errors.Is/As.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
