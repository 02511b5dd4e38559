package config

import (
	"fmt"

	"github.com/samuelfneumann/qconverge/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/qconverge/environment/envconfig"
	"github.com/samuelfneumann/qconverge/expreplay"
	"github.com/samuelfneumann/qconverge/initwfn"
	"github.com/samuelfneumann/qconverge/network"
	"github.com/samuelfneumann/qconverge/solver"
)

// EnvConfig returns the configuration of the Cartpole balance task
func (c *Config) EnvConfig() envconfig.Config {
	return envconfig.NewConfig(envconfig.Cartpole, envconfig.Balance,
		c.StepLimit, c.Discount)
}

// DeepQConfig returns the configuration of the DeepQ agent: a network
// with biases on every layer and the configured hidden activation,
// weight initializer, and solver.
func (c *Config) DeepQConfig() (deepq.Config, error) {
	init, err := c.InitWFn()
	if err != nil {
		return deepq.Config{}, fmt.Errorf("deepQConfig: %w", err)
	}

	solverType, err := solver.ParseType(c.Solver)
	if err != nil {
		return deepq.Config{}, fmt.Errorf("deepQConfig: %w", err)
	}

	// The loss is already averaged over the batch, so gradients are
	// not scaled again by the solver
	s, err := solver.New(solverType, c.StepSize, 1)
	if err != nil {
		return deepq.Config{}, fmt.Errorf("deepQConfig: %w", err)
	}

	biases := make([]bool, len(c.Layers))
	activations := make([]*network.Activation, len(c.Layers))
	for i := range c.Layers {
		biases[i] = true
		activations[i], err = network.ParseActivation(c.Activation)
		if err != nil {
			return deepq.Config{}, fmt.Errorf("deepQConfig: %w", err)
		}
	}

	config := deepq.Config{
		PolicyLayers:   c.Layers,
		Biases:         biases,
		Activations:    activations,
		Solver:         s,
		InitWFn:        init,
		InitialEpsilon: c.InitialEpsilon,
		MinEpsilon:     c.MinEpsilon,
		AnnealInterval: c.AnnealInterval,
		ExpReplay: expreplay.Config{
			SampleSize:        c.BatchSize,
			MinReplayCapacity: c.BatchSize,
			MaxReplayCapacity: c.ReplayCapacity,
		},
		Tau:                  c.Tau,
		TargetUpdateInterval: c.TargetSyncInterval,
		ExplorationSteps:     c.ExplorationSteps,
		DoubleQ:              c.DoubleQ,
	}
	if err := config.Validate(); err != nil {
		return deepq.Config{}, fmt.Errorf("deepQConfig: %w", err)
	}
	return config, nil
}

// InitWFn returns the weight initializer named by Init
func (c *Config) InitWFn() (*initwfn.InitWFn, error) {
	t, err := initwfn.ParseType(c.Init)
	if err != nil {
		return nil, fmt.Errorf("initWFn: %w", err)
	}

	switch t {
	case initwfn.Gaussian:
		return initwfn.NewGaussian(c.InitMean, c.InitStdDev)
	case initwfn.GlorotU:
		return initwfn.NewGlorotU(c.InitGain)
	case initwfn.GlorotN:
		return initwfn.NewGlorotN(c.InitGain)
	default:
		return initwfn.NewZeroes()
	}
}
