// Package environment outlines the interfaces and sturcts needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/qconverge/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode should end. If the episode should
// end, End() modifies the argument TimeStep so that it is the last
// TimeStep of the episode and records how the episode ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme, starting states, and episode
// termination for taking actions in some environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action a in state s and
	// transitioning to state nextState
	GetReward(s, a, nextState mat.Vector) float64

	// AtGoal returns whether a state is a goal state
	AtGoal(state mat.Vector) bool

	RewardSpec() Spec
	Min() float64 // Minimum possible reward
	Max() float64 // Maximum possible reward
}

// Environment implements a simualted environment, which includes a Task to
// complete
type Environment interface {
	Task

	// Reset resets the environment between episodes and returns the
	// first TimeStep of the next episode
	Reset() timestep.TimeStep

	// Step takes a single environmental step given some action. The
	// next TimeStep is returned, along with whether the episode ended.
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the most recent TimeStep of the environment
	LastTimeStep() timestep.TimeStep

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
