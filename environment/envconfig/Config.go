// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/qconverge/environment"
	"github.com/samuelfneumann/qconverge/environment/classiccontrol/cartpole"
	ts "github.com/samuelfneumann/qconverge/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Cartpole EnvName = "Cartpole"
)

// TaskName stores the tasks that can be configured with this package.
type TaskName string

// Tasks available for configuration
const (
	Balance TaskName = "Balance"
)

// Config implements a specific configuration of a specific environment
// and specific task.
type Config struct {
	Environment   EnvName
	Task          TaskName
	EpisodeCutoff int // Steps per episode, <= 0 for no limit
	Discount      float64
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff int,
	discount float64) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// Validate returns an error if the Config does not describe an
// available environment
func (c Config) Validate() error {
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1] "+
			"\n\thave(%v)", c.Discount)
	}

	switch c.Environment {
	case Cartpole:
		if c.Task != Balance {
			return fmt.Errorf("validate: no such task %v for %v", c.Task,
				c.Environment)
		}
		return nil
	}
	return fmt.Errorf("validate: no such environment %v", c.Environment)
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	return CreateCartpole(c.Task, c.EpisodeCutoff, seed, c.Discount)
}

// CreateCartpole creates a discrete-action Cartpole environment with
// the argument task
func CreateCartpole(taskName TaskName, cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep, error) {
	if taskName != Balance {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: no such "+
			"task %v", taskName)
	}

	task, err := cartpole.NewDefaultBalance(cutoff, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %w", err)
	}

	e, step, err := cartpole.NewDiscrete(task, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %w", err)
	}
	return e, step, nil
}
