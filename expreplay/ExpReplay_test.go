package expreplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/qconverge/timestep"
)

// transition returns a transition whose every entry is set to v
func transition(v float64) timestep.Transition {
	return timestep.Transition{
		State:     mat.NewVecDense(2, []float64{v, v}),
		Action:    mat.NewVecDense(1, []float64{v}),
		Reward:    v,
		Discount:  v,
		NextState: mat.NewVecDense(2, []float64{v, v}),
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name                  string
		batch, minCap, maxCap int
	}{
		{"zero min capacity", 1, 0, 10},
		{"max below min", 1, 5, 4},
		{"batch above max", 11, 1, 10},
		{"zero batch", 0, 1, 10},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(NewUniformSelector(test.batch, 1), test.minCap,
				test.maxCap, 2, 1)
			assert.Error(t, err)
		})
	}
}

func TestSampleErrors(t *testing.T) {
	replay, err := Config{
		SampleSize:        2,
		MinReplayCapacity: 3,
		MaxReplayCapacity: 10,
	}.Create(2, 1, 1)
	require.NoError(t, err)

	_, _, _, _, _, err = replay.Sample()
	assert.True(t, IsEmptyBuffer(err))
	assert.False(t, IsInsufficientSamples(err))

	require.NoError(t, replay.Add(transition(1)))
	_, _, _, _, _, err = replay.Sample()
	assert.True(t, IsInsufficientSamples(err))
	assert.False(t, IsEmptyBuffer(err))

	var replayErr *ExpReplayError
	assert.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "sample", replayErr.Op)
}

func TestFifoEviction(t *testing.T) {
	replay, err := New(NewUniformSelector(50, 3), 1, 3, 2, 1)
	assert.Error(t, err, "batch larger than capacity")

	replay, err = New(NewUniformSelector(3, 3), 1, 3, 2, 1)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, replay.Add(transition(float64(i))))
		want := i
		if want > 3 {
			want = 3
		}
		assert.Equal(t, want, replay.Capacity())
	}

	// Only transitions 3, 4, and 5 remain after two evictions
	for i := 0; i < 20; i++ {
		states, actions, rewards, discounts, nextStates, err := replay.Sample()
		require.NoError(t, err)
		assert.Len(t, states, 6)
		assert.Len(t, nextStates, 6)
		assert.Len(t, actions, 3)
		assert.Len(t, discounts, 3)

		for j, r := range rewards {
			assert.Contains(t, []float64{3, 4, 5}, r)
			assert.Equal(t, r, actions[j])
			assert.Equal(t, r, discounts[j])
			assert.Equal(t, []float64{r, r}, states[2*j:2*j+2])
			assert.Equal(t, []float64{r, r}, nextStates[2*j:2*j+2])
		}
	}
}

func TestAddValidatesShapes(t *testing.T) {
	replay, err := New(NewUniformSelector(1, 1), 1, 5, 2, 1)
	require.NoError(t, err)

	bad := transition(1)
	bad.State = mat.NewVecDense(3, nil)
	assert.Error(t, replay.Add(bad))

	bad = transition(1)
	bad.Action = mat.NewVecDense(2, nil)
	assert.Error(t, replay.Add(bad))

	assert.Equal(t, 0, replay.Capacity())
}

func TestSamplingIsSeeded(t *testing.T) {
	fill := func() ExperienceReplayer {
		replay, err := New(NewUniformSelector(4, 42), 1, 10, 2, 1)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			require.NoError(t, replay.Add(transition(float64(i))))
		}
		return replay
	}

	_, _, r1, _, _, err := fill().Sample()
	require.NoError(t, err)
	_, _, r2, _, _, err := fill().Sample()
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
