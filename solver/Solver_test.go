package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSolvers(t *testing.T) {
	adam, err := NewDefaultAdam(0.01, 20)
	require.NoError(t, err)
	assert.Equal(t, Adam, adam.Type)
	assert.NotNil(t, adam.Solver)

	vanilla, err := NewVanilla(0.1, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, Vanilla, vanilla.Type)

	rms, err := NewDefaultRMSProp(0.001, 32)
	require.NoError(t, err)
	assert.Equal(t, RMSProp, rms.Type)
}

func TestSolverValidation(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*Solver, error)
	}{
		{"zero step size", func() (*Solver, error) { return NewDefaultAdam(0, 20) }},
		{"zero batch", func() (*Solver, error) { return NewDefaultAdam(0.01, 0) }},
		{"beta1 of one", func() (*Solver, error) { return NewAdam(0.01, 1e-8, 1, 0.999, 20) }},
		{"negative vanilla step", func() (*Solver, error) { return NewVanilla(-1, 1, 0) }},
		{"rho of one", func() (*Solver, error) { return NewRMSProp(0.01, 1e-8, 1, 1, 0) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.fn()
			assert.Error(t, err)
		})
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"adam":    Adam,
		"Vanilla": Vanilla,
		"RMSPROP": RMSProp,
	}
	for name, want := range tests {
		got, err := ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseType("Adagrad")
	assert.Error(t, err)
}

func TestNewByType(t *testing.T) {
	for _, typ := range []Type{Adam, Vanilla, RMSProp} {
		s, err := New(typ, 0.01, 1)
		require.NoError(t, err, typ)
		assert.Equal(t, typ, s.Type)
		assert.NotNil(t, s.Solver)
	}

	_, err := New(Type("Adagrad"), 0.01, 1)
	assert.Error(t, err)
	_, err = New(Vanilla, 0, 1)
	assert.Error(t, err)
}
