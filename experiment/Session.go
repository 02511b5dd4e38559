package experiment

import (
	"fmt"

	"github.com/samuelfneumann/qconverge/utils/stats"
)

// Session runs an EpisodeRunner until the running mean of its
// training returns strictly exceeds a threshold, then evaluates it
// deterministically. A Session can only be run once.
type Session struct {
	runner   EpisodeRunner
	reporter Reporter

	maxEpisodes  int
	threshold    float64
	testEpisodes int

	episode int
	phase   Phase
	train   *stats.Running
	test    *stats.Running
}

// NewSession returns a new Session. Training runs for at most
// maxEpisodes+1 episodes, and testEpisodes deterministic episodes are
// run after convergence. Every training episode, the convergence
// decision, and the outcome are reported to reporter, which may be nil.
func NewSession(runner EpisodeRunner, maxEpisodes int, threshold float64,
	testEpisodes int, reporter Reporter) (*Session, error) {
	if runner == nil {
		return nil, fmt.Errorf("newSession: runner must not be nil")
	}
	if maxEpisodes <= 0 {
		return nil, fmt.Errorf("newSession: maximum episodes must be "+
			"positive \n\thave(%v)", maxEpisodes)
	}
	if testEpisodes < 0 {
		return nil, fmt.Errorf("newSession: test episodes must be "+
			"non-negative \n\thave(%v)", testEpisodes)
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	return &Session{
		runner:       runner,
		reporter:     reporter,
		maxEpisodes:  maxEpisodes,
		threshold:    threshold,
		testEpisodes: testEpisodes,
		phase:        Training,
		train:        stats.NewRunning(),
		test:         stats.NewRunning(),
	}, nil
}

// RunSession creates and runs a Session
func RunSession(runner EpisodeRunner, maxEpisodes int, threshold float64,
	testEpisodes int, reporter Reporter) (Result, error) {
	s, err := NewSession(runner, maxEpisodes, threshold, testEpisodes,
		reporter)
	if err != nil {
		return Result{}, fmt.Errorf("runSession: %w", err)
	}
	return s.Run()
}

// Run runs the Session to completion. An error returned by the runner
// stops the Session immediately and is returned wrapped.
func (s *Session) Run() (Result, error) {
	if s.phase != Training || s.episode != 0 {
		return Result{}, fmt.Errorf("run: session has already been run")
	}

	for s.episode <= s.maxEpisodes {
		ret, err := s.runner.RunEpisode()
		if err != nil {
			s.phase = Finished
			return Result{}, fmt.Errorf("run: training episode %v: %w",
				s.episode+1, err)
		}

		s.train.Add(ret)
		s.episode++
		s.reporter.Episode(s.episode, s.train.Mean(), ret)

		if s.train.Mean() > s.threshold {
			return s.evaluate()
		}
	}

	s.phase = Finished
	s.reporter.NotConverged(s.maxEpisodes)
	return Result{
		Outcome:   NotConverged,
		Episodes:  s.episode,
		TrainMean: s.train.Mean(),
	}, nil
}

// evaluate runs the deterministic test episodes after convergence
func (s *Session) evaluate() (Result, error) {
	s.phase = Evaluating
	s.runner.SetDeterministic(true)

	for i := 0; i < s.testEpisodes; i++ {
		ret, err := s.runner.RunEpisode()
		if err != nil {
			s.phase = Finished
			return Result{}, fmt.Errorf("evaluate: test episode %v: %w",
				i+1, err)
		}
		s.test.Add(ret)
	}

	s.phase = Finished
	s.reporter.Converged(s.episode, s.test.Mean())
	return Result{
		Outcome:        Converged,
		Episodes:       s.episode,
		MeanTestReturn: s.test.Mean(),
		TrainMean:      s.train.Mean(),
	}, nil
}

// Phase returns the current phase of the Session
func (s *Session) Phase() Phase {
	return s.phase
}

// Episode returns the number of training episodes completed
func (s *Session) Episode() int {
	return s.episode
}

// TrainStats returns a copy of the running statistics of training
// returns
func (s *Session) TrainStats() *stats.Running {
	train := *s.train
	return &train
}

// TestStats returns a copy of the running statistics of test returns
func (s *Session) TestStats() *stats.Running {
	test := *s.test
	return &test
}
