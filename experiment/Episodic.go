package experiment

import (
	"fmt"

	"github.com/samuelfneumann/qconverge/agent"
	env "github.com/samuelfneumann/qconverge/environment"
	"github.com/samuelfneumann/qconverge/experiment/tracker"
	ts "github.com/samuelfneumann/qconverge/timestep"
)

// Episodic runs an Agent in an Environment one episode at a time and
// satisfies the EpisodeRunner interface. Every TimeStep of a training
// episode is sent to the registered Trackers; deterministic episodes
// are not tracked.
type Episodic struct {
	env.Environment
	agent.Agent
	trackers      []tracker.Tracker
	deterministic bool
}

// NewEpisodic creates and returns a new episodic experiment on a given
// environment with a given agent. The t parameter is a slice of
// tracker.Tracker which determine what data is saved.
func NewEpisodic(e env.Environment, a agent.Agent,
	t ...tracker.Tracker) *Episodic {
	return &Episodic{Environment: e, Agent: a, trackers: t}
}

// Register registers a tracker.Tracker with the experiment so that
// data generated during training can be tracked and saved
func (o *Episodic) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode to completion and returns its
// return
func (o *Episodic) RunEpisode() (float64, error) {
	step := o.Environment.Reset()
	if err := o.Agent.ObserveFirst(step); err != nil {
		return 0, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	ret := 0.0
	for !step.Last() {
		action, err := o.Agent.SelectAction(step)
		if err != nil {
			return 0, fmt.Errorf("runEpisode: %w", err)
		}

		step, _, err = o.Environment.Step(action)
		if err != nil {
			return 0, fmt.Errorf("runEpisode: %w", err)
		}
		ret += step.Reward
		o.track(step)

		if err := o.Agent.Observe(action, step); err != nil {
			return 0, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return 0, fmt.Errorf("runEpisode: %w", err)
		}
	}
	o.Agent.EndEpisode()

	return ret, nil
}

// SetDeterministic switches the agent between evaluation and training
// mode
func (o *Episodic) SetDeterministic(deterministic bool) {
	o.deterministic = deterministic
	if deterministic {
		o.Agent.Eval()
	} else {
		o.Agent.Train()
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Episodic) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each
// Tracker
func (o *Episodic) track(t ts.TimeStep) {
	if o.deterministic {
		return
	}
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
