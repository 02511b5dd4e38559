package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition implements a single (S, A, R, γ, S') transition between
// two consecutive timesteps of an environment
type Transition struct {
	State     *mat.VecDense
	Action    *mat.VecDense
	Reward    float64
	Discount  float64
	NextState *mat.VecDense
}

// NewTransition creates a Transition from taking action in the
// TimeStep step and transitioning to the TimeStep next.
//
// If next ends the episode in a terminal state, the discount of the
// Transition is 0 so that no value is bootstrapped from the terminal
// state. If the episode instead ended from a timeout, the discount of
// next is kept.
func NewTransition(step TimeStep, action *mat.VecDense,
	next TimeStep) Transition {
	discount := next.Discount
	if next.Last() && next.EndType() == TerminalStateReached {
		discount = 0.0
	}

	return Transition{
		State:     step.Observation,
		Action:    action,
		Reward:    next.Reward,
		Discount:  discount,
		NextState: next.Observation,
	}
}

func (t Transition) String() string {
	str := "Transition | S: %v  |  A: %v  |  R: %.2f  |  γ: %.2f  |  S': %v"

	return fmt.Sprintf(str, mat.Formatted(t.State.T()),
		mat.Formatted(t.Action.T()), t.Reward, t.Discount,
		mat.Formatted(t.NextState.T()))
}
