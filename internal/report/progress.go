package report

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// NewParseProgress builds the per-file counter shown while source files
// are parsed in non-verbose mode. It is rendered only on a terminal;
// redirected output gets a silent bar so call sites stay unconditional.
func NewParseProgress(total int, out io.Writer) *progressbar.ProgressBar {
	if !IsTTY() {
		out = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Reading source files"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
}
