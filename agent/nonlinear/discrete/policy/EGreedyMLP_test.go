package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/qconverge/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/qconverge/network"
)

func newTestPolicy(t *testing.T, epsilon, minEpsilon float64,
	interval int, init G.InitWFn) *MultiHeadEGreedyMLP {
	task, err := cartpole.NewDefaultBalance(400, 1)
	require.NoError(t, err)
	env, _, err := cartpole.NewDiscrete(task, 0.99)
	require.NoError(t, err)

	p, err := NewMultiHeadEGreedyMLP(epsilon, minEpsilon, interval, env,
		G.NewGraph(), []int{8}, []bool{true},
		init, []*network.Activation{network.ReLU()}, 7)
	require.NoError(t, err)
	return p.(*MultiHeadEGreedyMLP)
}

func TestEpsilonValidation(t *testing.T) {
	task, err := cartpole.NewDefaultBalance(400, 1)
	require.NoError(t, err)
	env, _, err := cartpole.NewDiscrete(task, 0.99)
	require.NoError(t, err)

	tests := []struct {
		name         string
		epsilon, min float64
		interval     int
	}{
		{"epsilon above one", 1.5, 0.1, 10},
		{"min above initial", 0.1, 0.5, 10},
		{"negative interval", 1.0, 0.1, -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewMultiHeadEGreedyMLP(test.epsilon, test.min,
				test.interval, env, G.NewGraph(), []int{}, []bool{},
				G.Zeroes(), []*network.Activation{}, 1)
			assert.Error(t, err)
		})
	}
}

func TestAnneal(t *testing.T) {
	p := newTestPolicy(t, 1.0, 0.1, 1000, G.Zeroes())
	assert.Equal(t, 1.0, p.Epsilon())

	p.Anneal()
	assert.InDelta(t, 1.0-0.9/1000, p.Epsilon(), 1e-12)

	for i := 0; i < 999; i++ {
		p.Anneal()
	}
	assert.InDelta(t, 0.1, p.Epsilon(), 1e-9)

	// Epsilon never decays past its minimum
	for i := 0; i < 100; i++ {
		p.Anneal()
	}
	assert.Equal(t, 0.1, p.Epsilon())
}

func TestAnnealZeroInterval(t *testing.T) {
	p := newTestPolicy(t, 0.5, 0.1, 0, G.Zeroes())
	p.Anneal()
	assert.Equal(t, 0.5, p.Epsilon())
}

func TestGreedySelection(t *testing.T) {
	// All action values are equal with zero weights, so greedy selection
	// must break ties over both actions
	p := newTestPolicy(t, 1.0, 0.1, 10, G.Zeroes())
	p.Eval()
	assert.True(t, p.IsEval())

	task, err := cartpole.NewDefaultBalance(400, 3)
	require.NoError(t, err)
	_, step, err := cartpole.NewDiscrete(task, 0.99)
	require.NoError(t, err)

	values, err := p.ActionValues(step)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, values)

	seen := map[float64]bool{}
	for i := 0; i < 100; i++ {
		action, err := p.SelectAction(step)
		require.NoError(t, err)
		seen[action.AtVec(0)] = true
	}
	assert.Equal(t, map[float64]bool{0: true, 1: true}, seen)
}

func TestClonePolicy(t *testing.T) {
	p := newTestPolicy(t, 0.7, 0.1, 10, G.Gaussian(0, 1))
	p.Eval()

	clone, err := p.ClonePolicy()
	require.NoError(t, err)
	assert.Equal(t, p.Epsilon(), clone.Epsilon())
	assert.True(t, clone.IsEval())

	task, err := cartpole.NewDefaultBalance(400, 3)
	require.NoError(t, err)
	_, step, err := cartpole.NewDiscrete(task, 0.99)
	require.NoError(t, err)

	want, err := p.ActionValues(step)
	require.NoError(t, err)
	got, err := clone.ActionValues(step)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)

	clone.SetEpsilon(0)
	assert.Equal(t, 0.7, p.Epsilon())
	assert.NoError(t, clone.Close())
	assert.NoError(t, p.Close())
}
