package agent

import (
	"github.com/samuelfneumann/qconverge/environment"
)

// Type describes a kind of agent that a Config creates
type Type string

const (
	EGreedyDeepQ Type = "EGreedyDeepQ"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}
