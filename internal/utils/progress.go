package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescResolving   = "Resolving"
	DescDispatching = "Dispatching"
)

// NewProgressBar creates a consistently styled progress bar writing to w.
// A negative total switches to spinner mode.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
