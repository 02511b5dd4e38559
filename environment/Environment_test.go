package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/qconverge/timestep"
)

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := timestep.New(timestep.Mid, 1, 1, mat.NewVecDense(1, nil), 2)
	assert.False(t, limit.End(&step))
	assert.True(t, step.Mid())

	step.Number = 3
	assert.True(t, limit.End(&step))
	assert.True(t, step.Last())
	assert.Equal(t, timestep.Timeout, step.EndType())

	unlimited := NewStepLimit(0)
	step = timestep.New(timestep.Mid, 1, 1, mat.NewVecDense(1, nil), 1e6)
	assert.False(t, unlimited.End(&step))
}

func TestIntervalLimit(t *testing.T) {
	_, err := NewIntervalLimit([]r1.Interval{{Min: -1, Max: 1}}, []int{0, 1},
		timestep.TerminalStateReached)
	require.Error(t, err)

	limit, err := NewIntervalLimit([]r1.Interval{{Min: -1, Max: 1}}, []int{1},
		timestep.TerminalStateReached)
	require.NoError(t, err)

	inside := timestep.New(timestep.Mid, 1, 1,
		mat.NewVecDense(2, []float64{5, 0.5}), 1)
	assert.False(t, limit.End(&inside))

	outside := timestep.New(timestep.Mid, 1, 1,
		mat.NewVecDense(2, []float64{0, -1.5}), 1)
	assert.True(t, limit.End(&outside))
	assert.Equal(t, timestep.TerminalStateReached, outside.EndType())
}

func TestUniformStarterBounds(t *testing.T) {
	bounds := []r1.Interval{{Min: -0.05, Max: 0.05}, {Min: 1, Max: 2}}
	starter := NewUniformStarter(bounds, 42)

	for i := 0; i < 100; i++ {
		start := starter.Start()
		require.Equal(t, 2, start.Len())
		for j, b := range bounds {
			assert.GreaterOrEqual(t, start.AtVec(j), b.Min)
			assert.LessOrEqual(t, start.AtVec(j), b.Max)
		}
	}
}

func TestUniformStarterSeeded(t *testing.T) {
	bounds := []r1.Interval{{Min: -1, Max: 1}}
	a := NewUniformStarter(bounds, 7)
	b := NewUniformStarter(bounds, 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Start().AtVec(0), b.Start().AtVec(0))
	}
}
