// SPDX-License-Identifier: MPL-2.0

package download

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type (
	// Progress is advanced by the number of bytes written after every chunk.
	Progress interface {
		Add(n int) error
		Finish() error
	}

	// ProgressFunc creates the indicator for one transfer. total is the
	// expected size in bytes, or -1 when the server did not announce one.
	ProgressFunc func(total int64, description string) Progress

	nopProgress struct{}
)

// BarProgress returns a ProgressFunc that renders a byte-counting progress bar
// to w. Unknown totals render as a spinner.
func BarProgress(w io.Writer) ProgressFunc {
	return func(total int64, description string) Progress {
		return progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionOnCompletion(func() {
				_, _ = io.WriteString(w, "\n")
			}),
		)
	}
}

// NoProgress returns a ProgressFunc whose indicators render nothing.
func NoProgress() ProgressFunc {
	return func(int64, string) Progress { return nopProgress{} }
}

func (nopProgress) Add(int) error { return nil }

func (nopProgress) Finish() error { return nil }
