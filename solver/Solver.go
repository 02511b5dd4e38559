// Package solver implements typed configurations of Gorgonia Solvers
// so that solvers can be chosen by name.
package solver

import (
	"fmt"
	"strings"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// Solver wraps a Gorgonia Solver together with the configuration that
// created it.
type Solver struct {
	G.Solver
	Type
	Config
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newSolver: %w", err)
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// String implements the fmt.Stringer interface
func (s *Solver) String() string {
	return fmt.Sprintf("{%v Solver: %+v}", s.Type, s.Config)
}

// ParseType returns the Type with the given name, ignoring case
func ParseType(name string) (Type, error) {
	for _, t := range []Type{Adam, Vanilla, RMSProp} {
		if strings.EqualFold(name, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("parseType: no such solver type %q", name)
}

// New returns a Solver of type t with default hyperparameters, no
// gradient clipping, and the given step size and batch size
func New(t Type, stepSize float64, batchSize int) (*Solver, error) {
	switch t {
	case Adam:
		return NewDefaultAdam(stepSize, batchSize)
	case Vanilla:
		return NewVanilla(stepSize, batchSize, 0)
	case RMSProp:
		return NewDefaultRMSProp(stepSize, batchSize)
	}
	return nil, fmt.Errorf("new: no such solver type %v", t)
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool

	// Validate returns an error if the hyperparameters are unusable
	Validate() error
}

func validateCommon(stepSize float64, batch int) error {
	if stepSize <= 0 {
		return fmt.Errorf("step size must be positive \n\thave(%v)",
			stepSize)
	}
	if batch <= 0 {
		return fmt.Errorf("batch size must be positive \n\thave(%v)",
			batch)
	}
	return nil
}
