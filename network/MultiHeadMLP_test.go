package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// predict runs the computational graph of net on input and returns the
// network's output
func predict(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()
	require.NoError(t, net.SetInput(input))

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	out := net.Output().Data().([]float64)
	return append([]float64(nil), out...)
}

func newTestMLP(t *testing.T, batch int, init G.InitWFn) NeuralNet {
	t.Helper()
	net, err := NewMultiHeadMLP(4, batch, 2, G.NewGraph(), []int{64, 32},
		[]bool{true, true}, init, []*Activation{ReLU(), ReLU()})
	require.NoError(t, err)
	return net
}

func TestNewMultiHeadMLPValidation(t *testing.T) {
	_, err := NewMultiHeadMLP(4, 1, 2, G.NewGraph(), []int{64},
		[]bool{true, true}, G.Zeroes(), []*Activation{ReLU()})
	assert.Error(t, err)

	_, err = NewMultiHeadMLP(4, 1, 2, G.NewGraph(), []int{64},
		[]bool{true}, G.Zeroes(), []*Activation{})
	assert.Error(t, err)

	_, err = NewMultiHeadMLP(4, 0, 2, G.NewGraph(), []int{},
		[]bool{}, G.Zeroes(), []*Activation{})
	assert.Error(t, err)
}

func TestMultiHeadMLPShapes(t *testing.T) {
	net := newTestMLP(t, 3, G.Gaussian(0, 0.1))

	assert.Equal(t, 3, net.BatchSize())
	assert.Equal(t, 4, net.Features())
	assert.Equal(t, 2, net.Outputs())

	// Weights and biases of three layers
	assert.Len(t, net.Learnables(), 6)
	assert.Len(t, net.Model(), 6)

	out := predict(t, net, make([]float64, 12))
	assert.Len(t, out, 6)

	assert.Error(t, net.SetInput(make([]float64, 4)))
}

func TestMultiHeadMLPLinear(t *testing.T) {
	// With no hidden layers and unit weights the network sums its inputs
	net, err := NewMultiHeadMLP(2, 1, 1, G.NewGraph(), []int{}, []bool{},
		G.Ones(), []*Activation{})
	require.NoError(t, err)

	out := predict(t, net, []float64{1.5, 2})
	assert.InDelta(t, 3.5, out[0], 1e-12)
}

func TestMultiHeadMLPCloneAndSet(t *testing.T) {
	net := newTestMLP(t, 1, G.Gaussian(0, 0.5))
	input := []float64{0.1, -0.2, 0.3, -0.4}
	want := predict(t, net, input)

	clone, err := net.CloneWithBatch(2)
	require.NoError(t, err)
	assert.Equal(t, 2, clone.BatchSize())

	got := predict(t, clone, append(append([]float64{}, input...), input...))
	assert.InDeltaSlice(t, want, got[:2], 1e-9)
	assert.InDeltaSlice(t, want, got[2:], 1e-9)

	// A network with different weights predicts the same values once
	// its weights are set
	other := newTestMLP(t, 1, G.Gaussian(0, 0.5))
	require.NoError(t, other.Set(net))
	assert.InDeltaSlice(t, want, predict(t, other, input), 1e-9)
}

func TestMultiHeadMLPPolyak(t *testing.T) {
	zeros, err := NewMultiHeadMLP(2, 1, 1, G.NewGraph(), []int{}, []bool{},
		G.Zeroes(), []*Activation{})
	require.NoError(t, err)
	ones, err := NewMultiHeadMLP(2, 1, 1, G.NewGraph(), []int{}, []bool{},
		G.Ones(), []*Activation{})
	require.NoError(t, err)

	require.NoError(t, zeros.Polyak(ones, 0.25))

	weights := zeros.Learnables()[0].Value().(*tensor.Dense)
	assert.InDeltaSlice(t, []float64{0.25, 0.25}, weights.Data(), 1e-12)
}

func TestParseActivation(t *testing.T) {
	for _, name := range []string{"relu", "ReLU", "identity", "tanh"} {
		act, err := ParseActivation(name)
		require.NoError(t, err)
		assert.NotNil(t, act)
	}

	_, err := ParseActivation("softsign")
	assert.Error(t, err)
}
