package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// GlorotConfig configures Glorot (Xavier) initialization, which scales
// weights by the fan-in and fan-out of each layer. Normal selects the
// Normal variant over the Uniform one.
type GlorotConfig struct {
	Gain   float64
	Normal bool
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newGlorot(gain, false)
}

// NewGlorotN returns a new Glorot Normal weight initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newGlorot(gain, true)
}

func newGlorot(gain float64, normal bool) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newGlorot: gain must be positive "+
			"\n\thave(%v)", gain)
	}
	return newInitWFn(GlorotConfig{Gain: gain, Normal: normal})
}

// Type returns GlorotN or GlorotU
func (g GlorotConfig) Type() Type {
	if g.Normal {
		return GlorotN
	}
	return GlorotU
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GlorotConfig) Create() G.InitWFn {
	if g.Normal {
		return G.GlorotN(g.Gain)
	}
	return G.GlorotU(g.Gain)
}
