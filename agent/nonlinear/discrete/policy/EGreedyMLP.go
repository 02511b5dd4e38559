// Package policy implements policies using function approximation using
// Gorgonia. Many of these policies use nonlinear function
// aprpoximation.
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/qconverge/agent"
	env "github.com/samuelfneumann/qconverge/environment"
	"github.com/samuelfneumann/qconverge/network"
	"github.com/samuelfneumann/qconverge/timestep"
	"github.com/samuelfneumann/qconverge/utils/floatutils"
)

// MultiHeadEGreedyMLP implements an epsilon greedy policy using a
// feedforward neural network/MLP. Given an environment with N actions,
// the neural network will produce N outputs, each predicting the
// value of a distinct action.
//
// Epsilon is annealed linearly: each call to Anneal() decreases epsilon
// by (initial - minimum) / annealInterval until it reaches the minimum.
// In evaluation mode the policy is greedy, breaking ties between
// maximum-valued actions uniformly at random.
//
// The policy compiles its own VM over the graph of its network, so the
// graph given to the constructor should not be shared with nodes that
// require gradients.
type MultiHeadEGreedyMLP struct {
	network.NeuralNet
	vm G.VM

	epsilon    float64
	minEpsilon float64
	delta      float64
	eval       bool

	rng  *rand.Rand
	seed uint64
}

// NewMultiHeadEGreedyMLP creates and returns a new MultiHeadEGreedyMLP
// The hiddenSizes parameter defines the number of nodes in each hidden
// layer. The biases parameter outlines which layers should include
// bias units. The activations parameter determines the activation
// function for each layer.
//
// Note that this constructor will always add an additional hidden
// layer (with a bias unit and no activation) such that the number of
// network outputs equals the number of actions in the environment.
//
// The epsilon parameter is the initial exploration rate, which is
// annealed to minEpsilon over annealInterval calls to Anneal(). An
// annealInterval of 0 keeps epsilon constant.
func NewMultiHeadEGreedyMLP(epsilon, minEpsilon float64, annealInterval int,
	e env.Environment, g *G.ExprGraph, hiddenSizes []int, biases []bool,
	init G.InitWFn, activations []*network.Activation,
	seed uint64) (agent.EGreedyNNPolicy, error) {
	if epsilon < 0 || epsilon > 1 || minEpsilon < 0 || minEpsilon > epsilon {
		return nil, fmt.Errorf("newMultiHeadEGreedyMLP: epsilon must "+
			"satisfy 0 <= min <= initial <= 1 \n\thave(%v, %v)",
			minEpsilon, epsilon)
	}
	if annealInterval < 0 {
		return nil, fmt.Errorf("newMultiHeadEGreedyMLP: anneal interval "+
			"must be non-negative \n\thave(%v)", annealInterval)
	}

	// Calculate the number of actions and state features
	numActions := int(e.ActionSpec().UpperBound.AtVec(0)) + 1
	features := e.ObservationSpec().Shape.Len()

	net, err := network.NewMultiHeadMLP(features, 1, numActions, g,
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newMultiHeadEGreedyMLP: could not create "+
			"policy: %w", err)
	}

	delta := 0.0
	if annealInterval > 0 {
		delta = (epsilon - minEpsilon) / float64(annealInterval)
	}

	return newFromNet(net, epsilon, minEpsilon, delta, seed), nil
}

func newFromNet(net network.NeuralNet, epsilon, minEpsilon, delta float64,
	seed uint64) *MultiHeadEGreedyMLP {
	return &MultiHeadEGreedyMLP{
		NeuralNet:  net,
		vm:         G.NewTapeMachine(net.Graph()),
		epsilon:    epsilon,
		minEpsilon: minEpsilon,
		delta:      delta,
		rng:        rand.New(rand.NewSource(seed)),
		seed:       seed,
	}
}

// Network returns the neural network function approximator that the
// policy uses.
func (e *MultiHeadEGreedyMLP) Network() network.NeuralNet {
	return e.NeuralNet
}

// ClonePolicy clones a MultiHeadEGreedyMLP, including its annealing
// schedule and mode. The clone has its own graph, VM, and RNG.
func (e *MultiHeadEGreedyMLP) ClonePolicy() (*MultiHeadEGreedyMLP, error) {
	net, err := e.Network().Clone()
	if err != nil {
		return nil, fmt.Errorf("clonePolicy: could not clone policy: %w",
			err)
	}

	clone := newFromNet(net, e.epsilon, e.minEpsilon, e.delta, e.seed)
	clone.eval = e.eval
	return clone, nil
}

// SetEpsilon sets the value for epsilon in the epsilon greedy policy.
func (e *MultiHeadEGreedyMLP) SetEpsilon(ε float64) {
	e.epsilon = ε
}

// Epsilon gets the value of epsilon for the policy.
func (e *MultiHeadEGreedyMLP) Epsilon() float64 {
	return e.epsilon
}

// Anneal decreases epsilon by one step of the linear schedule
func (e *MultiHeadEGreedyMLP) Anneal() {
	e.epsilon = math.Max(e.minEpsilon, e.epsilon-e.delta)
}

// Eval sets the policy to greedy action selection
func (e *MultiHeadEGreedyMLP) Eval() {
	e.eval = true
}

// Train sets the policy to epsilon greedy action selection
func (e *MultiHeadEGreedyMLP) Train() {
	e.eval = false
}

// IsEval returns whether the policy is in evaluation mode
func (e *MultiHeadEGreedyMLP) IsEval() bool {
	return e.eval
}

// ActionValues runs the network on the observation of t and returns the
// predicted value of each action
func (e *MultiHeadEGreedyMLP) ActionValues(t timestep.TimeStep) ([]float64,
	error) {
	if err := e.SetInput(t.Observation.RawVector().Data); err != nil {
		return nil, fmt.Errorf("actionValues: %w", err)
	}
	defer e.vm.Reset()

	if err := e.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("actionValues: could not run policy: %w", err)
	}

	values := e.Output().Data().([]float64)
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// SelectAction selects an action in the TimeStep t. The returned
// vector holds the index of the action selected.
func (e *MultiHeadEGreedyMLP) SelectAction(t timestep.TimeStep) (
	*mat.VecDense, error) {
	actionValues, err := e.ActionValues(t)
	if err != nil {
		return nil, fmt.Errorf("selectAction: %w", err)
	}

	// With probability epsilon return a random action
	if !e.eval && e.rng.Float64() < e.epsilon {
		action := e.rng.Intn(e.numActions())
		return mat.NewVecDense(1, []float64{float64(action)}), nil
	}

	// If multiple actions have max value, return a random max-valued action
	_, maxIndices := floatutils.MaxSlice(actionValues)
	action := maxIndices[e.rng.Intn(len(maxIndices))]
	return mat.NewVecDense(1, []float64{float64(action)}), nil
}

// Close closes the policy's VM
func (e *MultiHeadEGreedyMLP) Close() error {
	return e.vm.Close()
}

// numActions returns the number of actions that the policy chooses
// between.
func (e *MultiHeadEGreedyMLP) numActions() int {
	return e.Outputs()
}
