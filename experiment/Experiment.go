// Package experiment implements functionality for running an agent in
// an environment until its training performance converges.
//
// A Session drives an EpisodeRunner: it runs training episodes and
// folds their returns into a running mean until the mean exceeds a
// threshold or the episode budget is exhausted. On convergence the
// runner is switched to deterministic action selection and a fixed
// number of test episodes measures the final performance.
package experiment

// EpisodeRunner is the capability a Session needs from an agent
type EpisodeRunner interface {
	// RunEpisode runs a single episode to completion and returns the
	// sum of rewards seen during the episode
	RunEpisode() (float64, error)

	// SetDeterministic switches between exploratory and greedy action
	// selection
	SetDeterministic(bool)
}

// Phase is the phase a Session is in
type Phase int

const (
	Training Phase = iota
	Evaluating
	Finished
)

// String implements the fmt.Stringer interface
func (p Phase) String() string {
	switch p {
	case Training:
		return "Training"
	case Evaluating:
		return "Evaluating"
	case Finished:
		return "Finished"
	}
	return "Unknown"
}
