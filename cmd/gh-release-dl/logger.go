// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostic logger shared by the client, downloader
// and flow. Debug output is enabled only in verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          "gh-release-dl",
		ReportTimestamp: false,
		Level:           level,
	})
}
