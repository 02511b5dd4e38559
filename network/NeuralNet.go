// Package network implements neural network function approximators
// built on Gorgonia computational graphs.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network function approximator whose
// forward pass has been added to a Gorgonia computational graph. A
// NeuralNet does not have a VM of its own; a VM compiled from Graph()
// must be run before Output() holds a prediction.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the input to the network. The input must hold
	// BatchSize() * Features() values in row major order.
	SetInput([]float64) error

	// Set sets the weights of the network to those of another network
	Set(NeuralNet) error

	// Polyak sets the weights of the network to a polyak average
	// between its weights and those of another network
	Polyak(NeuralNet, float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}

// Layer implements a single layer of a NeuralNet
type Layer interface {
	fwd(*G.Node) (*G.Node, error)
	CloneTo(g *G.ExprGraph) Layer
	Weights() *G.Node
	Bias() *G.Node
	Activation() *Activation
}
