package envconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	env "github.com/samuelfneumann/qconverge/environment"
)

func TestCreateCartpole(t *testing.T) {
	config := NewConfig(Cartpole, Balance, 400, 0.99)
	require.NoError(t, config.Validate())

	e, step, err := config.Create(5)
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, 0.99, step.Discount)
	assert.Equal(t, env.Discrete, e.ActionSpec().Cardinality)
	assert.Equal(t, 4, e.ObservationSpec().Shape.Len())
}

func TestCreateSeeded(t *testing.T) {
	config := NewConfig(Cartpole, Balance, 400, 0.99)

	_, s1, err := config.Create(3)
	require.NoError(t, err)
	_, s2, err := config.Create(3)
	require.NoError(t, err)
	assert.Equal(t, s1.Observation.RawVector().Data,
		s2.Observation.RawVector().Data)
}

func TestInvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"unknown environment", NewConfig("MountainCar", Balance, 10, 0.9)},
		{"unknown task", NewConfig(Cartpole, "SwingUp", 10, 0.9)},
		{"discount above one", NewConfig(Cartpole, Balance, 10, 1.5)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Error(t, test.config.Validate())
			_, _, err := test.config.Create(1)
			assert.Error(t, err)
		})
	}
}
