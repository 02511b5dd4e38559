package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewTransitionDiscount(t *testing.T) {
	state := mat.NewVecDense(2, []float64{0, 1})
	nextState := mat.NewVecDense(2, []float64{1, 2})
	action := mat.NewVecDense(1, []float64{1})
	first := New(First, 0, 0.99, state, 0)

	mid := New(Mid, 1, 0.99, nextState, 1)
	assert.Equal(t, 0.99, NewTransition(first, action, mid).Discount)

	timeout := New(Last, 1, 0.99, nextState, 1)
	timeout.SetEnd(Timeout)
	assert.Equal(t, 0.99, NewTransition(first, action, timeout).Discount)

	terminal := New(Last, 1, 0.99, nextState, 1)
	terminal.SetEnd(TerminalStateReached)
	tr := NewTransition(first, action, terminal)
	assert.Equal(t, 0.0, tr.Discount)
	assert.Equal(t, 1.0, tr.Reward)
	assert.Same(t, state, tr.State)
	assert.Same(t, nextState, tr.NextState)
}

func TestStepTypes(t *testing.T) {
	step := New(First, 0, 1, mat.NewVecDense(1, nil), 0)
	assert.True(t, step.First())
	assert.False(t, step.Last())
	assert.Equal(t, Unknown, step.EndType())

	step.StepType = Last
	step.SetEnd(Timeout)
	assert.True(t, step.Last())
	assert.Equal(t, "Timeout", step.EndType().String())
}
