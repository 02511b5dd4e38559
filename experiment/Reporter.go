package experiment

import (
	"github.com/rs/zerolog"
)

// Reporter receives the progress of a Session
type Reporter interface {
	// Episode reports the running mean and return after a training
	// episode. Episodes are numbered from 1.
	Episode(episode int, mean, ret float64)

	// Converged reports that training converged after episodes
	// episodes and the mean return of the deterministic test episodes
	Converged(episodes int, meanTestReturn float64)

	// NotConverged reports that training did not converge within
	// maxEpisodes episodes
	NotConverged(maxEpisodes int)
}

// NopReporter discards all reports
type NopReporter struct{}

func (NopReporter) Episode(int, float64, float64) {}
func (NopReporter) Converged(int, float64)        {}
func (NopReporter) NotConverged(int)              {}

// MultiReporter sends each report to a number of Reporters in order
type MultiReporter []Reporter

// NewMultiReporter returns a MultiReporter, skipping nil Reporters
func NewMultiReporter(reporters ...Reporter) MultiReporter {
	multi := make(MultiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			multi = append(multi, r)
		}
	}
	return multi
}

// Episode implements the Reporter interface
func (m MultiReporter) Episode(episode int, mean, ret float64) {
	for _, r := range m {
		r.Episode(episode, mean, ret)
	}
}

// Converged implements the Reporter interface
func (m MultiReporter) Converged(episodes int, meanTestReturn float64) {
	for _, r := range m {
		r.Converged(episodes, meanTestReturn)
	}
}

// NotConverged implements the Reporter interface
func (m MultiReporter) NotConverged(maxEpisodes int) {
	for _, r := range m {
		r.NotConverged(maxEpisodes)
	}
}

// LogReporter writes reports as structured log lines
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter returns a new LogReporter which logs to logger
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Episode implements the Reporter interface
func (l *LogReporter) Episode(episode int, mean, ret float64) {
	l.logger.Info().
		Int("episode", episode).
		Float64("mean", mean).
		Float64("return", ret).
		Msgf("Average return: %v Episode return: %v", mean, ret)
}

// Converged implements the Reporter interface
func (l *LogReporter) Converged(episodes int, meanTestReturn float64) {
	l.logger.Info().
		Int("episodes", episodes).
		Float64("test_mean", meanTestReturn).
		Msgf("Converged with return %v with number of %v iterations",
			meanTestReturn, episodes)
}

// NotConverged implements the Reporter interface
func (l *LogReporter) NotConverged(maxEpisodes int) {
	l.logger.Warn().
		Int("max_episodes", maxEpisodes).
		Msgf("Cart Pole with DQN failed to converge in %v iterations.",
			maxEpisodes)
}
