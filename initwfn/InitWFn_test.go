package initwfn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestNewGaussian(t *testing.T) {
	init, err := NewGaussian(0, 0.001)
	require.NoError(t, err)
	assert.Equal(t, Gaussian, init.Type)
	assert.NotNil(t, init.InitWFn())

	_, err = NewGaussian(0, 0)
	assert.Error(t, err)
}

func TestNewGlorot(t *testing.T) {
	uniform, err := NewGlorotU(1.0)
	require.NoError(t, err)
	assert.Equal(t, GlorotU, uniform.Type)
	assert.NotNil(t, uniform.InitWFn())

	normal, err := NewGlorotN(2.0)
	require.NoError(t, err)
	assert.Equal(t, GlorotN, normal.Type)
	assert.Equal(t, GlorotConfig{Gain: 2.0, Normal: true}, normal.Config)

	_, err = NewGlorotU(0)
	assert.Error(t, err)
	_, err = NewGlorotN(-1)
	assert.Error(t, err)
}

func TestZeroesFillsZero(t *testing.T) {
	zeroes, err := NewZeroes()
	require.NoError(t, err)
	assert.Equal(t, Zeroes, zeroes.Type)

	values := zeroes.InitWFn()(tensor.Float64, 2, 3).([]float64)
	assert.Equal(t, make([]float64, 6), values)
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"gaussian": Gaussian,
		"GlorotU":  GlorotU,
		"glorotn":  GlorotN,
		"ZEROES":   Zeroes,
	}
	for name, want := range tests {
		got, err := ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseType("HeU")
	assert.Error(t, err)
}
