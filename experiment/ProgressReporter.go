package experiment

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/qconverge/utils/progressbar"
)

// ProgressReporter displays training progress towards the episode
// budget as a terminal progress bar
type ProgressReporter struct {
	bar *progressbar.ManualProgressBar
}

// NewProgressReporter returns a new ProgressReporter writing to out for
// a Session with the given episode budget
func NewProgressReporter(out io.Writer, maxEpisodes int) *ProgressReporter {
	return &ProgressReporter{
		bar: progressbar.NewManualProgressBar(out, 40, maxEpisodes+1),
	}
}

// Episode implements the Reporter interface
func (p *ProgressReporter) Episode(episode int, mean, ret float64) {
	p.bar.Increment()
	p.bar.SetSuffix(fmt.Sprintf("episode %d mean %.2f", episode, mean))
	p.bar.Display()
}

// Converged implements the Reporter interface
func (p *ProgressReporter) Converged(int, float64) {
	p.bar.Close()
}

// NotConverged implements the Reporter interface
func (p *ProgressReporter) NotConverged(int) {
	p.bar.Close()
}
