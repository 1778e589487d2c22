package lib

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar returns a bar counting count files. It draws on stderr so
// that it does not mix with the status lines on stdout.
func NewProgressBar(count int, description string, visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description+":"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20), // Fit in an 80-column terminal.
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetVisibility(visible),
	)
}
