package cartpole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/qconverge/environment"
	ts "github.com/samuelfneumann/qconverge/timestep"
)

const (
	FailAngle    float64 = 12 * 2 * math.Pi / 360
	FailPosition float64 = 2.4

	// Bounds on each state feature of the default starting state
	// distribution
	StartBound float64 = 0.05
)

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The reward is +1 for every timestep, including the one on which the
// episode ends.
//
// Episodes end in a terminal state when the pole's angle leaves
// [-failAngle, failAngle] or the cart's position leaves
// [-failPosition, failPosition]. Episodes are cut off at a step limit.
type Balance struct {
	env.Starter
	stepLimiter     *env.StepLimit
	intervalLimiter *env.IntervalLimit
	failAngle       float64
	failPosition    float64
}

// NewBalance creates and returns a new Balance task. If episodeSteps
// is 0 or less, episodes only end in terminal states.
func NewBalance(s env.Starter, episodeSteps int, failAngle,
	failPosition float64) (*Balance, error) {
	if failAngle <= 0 || failPosition <= 0 {
		return nil, fmt.Errorf("newBalance: failure bounds must be positive")
	}

	stepLimiter := env.NewStepLimit(episodeSteps)

	legal := []r1.Interval{
		{Min: -failPosition, Max: failPosition},
		{Min: -failAngle, Max: failAngle},
	}
	intervalLimiter, err := env.NewIntervalLimit(legal, []int{0, 2},
		ts.TerminalStateReached)
	if err != nil {
		return nil, fmt.Errorf("newBalance: %w", err)
	}

	return &Balance{s, stepLimiter, intervalLimiter, failAngle,
		failPosition}, nil
}

// NewDefaultBalance returns a Balance task with the classic failure
// bounds and starting states drawn uniformly from
// [-StartBound, StartBound] in each feature.
func NewDefaultBalance(episodeSteps int, seed uint64) (*Balance, error) {
	bounds := make([]r1.Interval, ObservationDims)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -StartBound, Max: StartBound}
	}
	s := env.NewUniformStarter(bounds, seed)

	return NewBalance(s, episodeSteps, FailAngle, FailPosition)
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.intervalLimiter.End(t); end {
		return true
	}
	if end := b.stepLimiter.End(t); end {
		return true
	}
	return false
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState.
func (b *Balance) GetReward(_, _, _ mat.Vector) float64 {
	return 1.0
}

// AtGoal returns whether or not the pole is balanced in state
func (b *Balance) AtGoal(state mat.Vector) bool {
	return math.Abs(state.AtVec(2)) <= b.failAngle &&
		math.Abs(state.AtVec(0)) <= b.failPosition
}

// Min returns the minimum possible reward that can be received in the
// environment
func (b *Balance) Min() float64 {
	return 1.0
}

// Max returns the maximum possible reward that can be received in the
// environment
func (b *Balance) Max() float64 {
	return 1.0
}

// RewardSpec returns the reward specification for the environment
func (b *Balance) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
