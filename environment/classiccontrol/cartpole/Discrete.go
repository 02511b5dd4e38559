package cartpole

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/qconverge/environment"
	ts "github.com/samuelfneumann/qconverge/timestep"
)

const (
	// Discrete Actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 1
)

// Discrete implements the classic control environment Cartpole with
// discrete actions. In this environment, a pole is attached to a cart,
// which can move horizontally. Gravity pulls the pole downwards so
// that balancing it in an upright position is very difficult.
//
// Actions are discrete, consisting of the direction to apply a
// horizontal force of constant magnitude to the cart. Legal actions
// are in {0, 1}:
//
//	Action		Meaning
//	  0			Apply force left
//	  1			Apply force right
//
// Illegal actions cause Step to return an error.
//
// Discrete implements the environment.Environment interface
type Discrete struct {
	*base
}

// NewDiscrete constructs a new Cartpole environment with discrete
// actions
func NewDiscrete(t env.Task, discount float64) (*Discrete, ts.TimeStep,
	error) {
	base, firstStep, err := newBase(t, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %w", err)
	}

	return &Discrete{base}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (c *Discrete) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound,
		upperBound, env.Discrete)
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (c *Discrete) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"%v-dimensional \n\thave(%v)", ActionDims, a.Len())
	}

	action := int(a.AtVec(0))
	if action < MinDiscreteAction || action > MaxDiscreteAction ||
		float64(action) != a.AtVec(0) {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ {0, 1}", a.AtVec(0))
	}

	// Convert action (0, 1) to a direction (-1, 1)
	direction := 2*float64(action) - 1

	nextState := c.nextState(direction)
	return c.update(a, nextState)
}
