package deepq

import (
	"fmt"

	"github.com/samuelfneumann/qconverge/agent"
	env "github.com/samuelfneumann/qconverge/environment"
	"github.com/samuelfneumann/qconverge/expreplay"
	"github.com/samuelfneumann/qconverge/initwfn"
	"github.com/samuelfneumann/qconverge/network"
	"github.com/samuelfneumann/qconverge/solver"
)

// Config implements a configuration for a DeepQ agent
type Config struct {
	PolicyLayers []int                 // Layer sizes in neural net
	Biases       []bool                // Whether each layer should have a bias
	Activations  []*network.Activation // Activation of each layer
	Solver       *solver.Solver        // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	// Behaviour policy epsilon, linearly annealed from InitialEpsilon
	// to MinEpsilon over AnnealInterval learning steps
	InitialEpsilon float64
	MinEpsilon     float64
	AnnealInterval int

	// Experience replay parameters
	ExpReplay expreplay.Config

	// Target net updates
	Tau                  float64 // Polyak averaging constant
	TargetUpdateInterval int     // Number of steps target network updates

	// Number of environment steps taken before learning begins
	ExplorationSteps int

	// Whether the online network selects the bootstrap action
	DoubleQ bool
}

// BatchSize returns the batch size of the agent constructed using this
// Config
func (c Config) BatchSize() int {
	return c.ExpReplay.SampleSize
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.EGreedyDeepQ
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ agent.
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases\n\twant(%v)"+
			"\n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}

	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}

	if c.Solver == nil {
		return fmt.Errorf("validate: no solver specified")
	}

	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer specified")
	}

	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target networks must be updated at "+
			"positive timestep intervals \n\twant(>0) \n\thave(%v)",
			c.TargetUpdateInterval)
	}

	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("validate: tau must be in (0, 1] \n\thave(%v)",
			c.Tau)
	}

	if c.ExplorationSteps < 0 {
		return fmt.Errorf("validate: exploration steps must be "+
			"non-negative \n\thave(%v)", c.ExplorationSteps)
	}

	if c.BatchSize() < 1 {
		return fmt.Errorf("validate: batch size must be positive "+
			"\n\thave(%v)", c.BatchSize())
	}

	return nil
}

// ValidAgent returns whether the agent is valid for the configuration.
// That is, whether Agent a can be constructed with Config c.
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*DeepQ)
	return ok
}

// CreateAgent creates a new DeepQ agent based on the configuration
func (c Config) CreateAgent(e env.Environment, seed uint64) (agent.Agent,
	error) {
	return New(e, c, seed)
}
