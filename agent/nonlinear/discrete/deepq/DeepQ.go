// Package deepq implements the deep Q-learning algorithm with a replay
// buffer and target network.
package deepq

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/qconverge/agent/nonlinear/discrete/policy"
	"github.com/samuelfneumann/qconverge/environment"
	"github.com/samuelfneumann/qconverge/expreplay"
	"github.com/samuelfneumann/qconverge/network"
	ts "github.com/samuelfneumann/qconverge/timestep"
	"github.com/samuelfneumann/qconverge/utils/floatutils"
)

// DeepQ implements the deep Q-learning algorithm. This algorithm is
// conceptually similar to DQN, but uses the MSE loss.
//
// Every transition observed in training mode is stored in the replay
// buffer. Once ExplorationSteps transitions have been observed, each
// call to Step samples a batch and takes a single solver step on the
// mean squared TD error, anneals the behaviour policy, and syncs the
// target network every TargetUpdateInterval observed transitions. In
// evaluation mode the agent acts greedily, stores nothing, and does
// not learn.
type DeepQ struct {
	// Action selection policies
	behaviourPolicy *policy.MultiHeadEGreedyMLP // Behaviour egreedy policy
	targetPolicy    *policy.MultiHeadEGreedyMLP // Greedy policy for eval

	// Network for learning weights that takes in batches of inputs
	trainNet   network.NeuralNet
	trainNetVM G.VM
	solver     G.Solver // Adapts the weights of trainNet

	// Network that provides the update target for a batch of inputs
	targetNet   network.NeuralNet
	targetNetVM G.VM

	// Copy of trainNet used to select bootstrap actions with double Q
	nextNet   network.NeuralNet
	nextNetVM G.VM
	doubleQ   bool

	// Variables to track target network updates
	tau                  float64 // Polyak averaging constant
	targetUpdateInterval int     // Steps between target updates
	explorationSteps     int
	totalSteps           int
	gradientSteps        int

	selectedActions *G.Node // One-hot actions taken at the states
	targets         *G.Node // Update targets r + γ * max Q(s', a')
	loss            *G.Node
	lossVal         G.Value
	numActions      int

	replay expreplay.ExperienceReplayer

	prevStep ts.TimeStep

	batchSize int
	eval      bool // Whether or not in evaluation mode
}

// New creates and returns a new DeepQ agent
func New(env environment.Environment, config Config,
	seed uint64) (*DeepQ, error) {
	// Ensure environment has discrete actions
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: cannot use non-discrete actions")
	}

	// Ensure actions are one-dimensional
	if env.ActionSpec().LowerBound.Len() > 1 {
		return nil, fmt.Errorf("new: actions must be 1-dimensional")
	}

	// Ensure actions are enumerated from 0
	if env.ActionSpec().LowerBound.AtVec(0) != 0.0 {
		return nil, fmt.Errorf("new: actions must be enumerated " +
			"starting from 0")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	batchSize := config.BatchSize()
	numActions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1
	numFeatures := env.ObservationSpec().Shape.Len()

	// Behaviour network for selecting actions
	behaviourPolicy, err := policy.NewMultiHeadEGreedyMLP(
		config.InitialEpsilon,
		config.MinEpsilon,
		config.AnnealInterval,
		env,
		G.NewGraph(),
		config.PolicyLayers,
		config.Biases,
		config.InitWFn.InitWFn(),
		config.Activations,
		seed,
	)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour policy: %w",
			err)
	}
	behaviour := behaviourPolicy.(*policy.MultiHeadEGreedyMLP)

	// Create the target policy for greedy action selection
	targetPolicy, err := behaviour.ClonePolicy()
	if err != nil {
		return nil, fmt.Errorf("new: could not create target policy: %w",
			err)
	}
	targetPolicy.SetEpsilon(0.0)
	targetPolicy.Eval()

	// Create the target network which provides the update target
	targetNet, err := behaviour.Network().CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %w",
			err)
	}
	targetNetVM := G.NewTapeMachine(targetNet.Graph())

	var nextNet network.NeuralNet
	var nextNetVM G.VM
	if config.DoubleQ {
		nextNet, err = behaviour.Network().CloneWithBatch(batchSize)
		if err != nil {
			return nil, fmt.Errorf("new: could not create double Q "+
				"network: %w", err)
		}
		nextNetVM = G.NewTapeMachine(nextNet.Graph())
	}

	// Create a training network which learns the weights
	trainNet, err := behaviour.Network().CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create learning network: %w",
			err)
	}
	gTrain := trainNet.Graph()

	// The update targets are computed outside the graph so that no
	// gradient flows through them
	targets := G.NewVector(gTrain, tensor.Float64, G.WithShape(batchSize),
		G.WithName("targets"), G.WithInit(G.Zeroes()))

	// Action selected in the previous state. This is needed to compute
	// the loss using the correct action value since the network outputs N
	// action values, one for each environmental action
	selectedActions := G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithName("actionSelected"),
		G.WithShape(batchSize, numActions),
		G.WithInit(G.Zeroes()),
	)
	selectedActionsValue := G.Must(G.HadamardProd(trainNet.Prediction(),
		selectedActions))
	selectedActionsValue = G.Must(G.Sum(selectedActionsValue, 1))

	// Compute the Mean Squarred TD error
	losses := G.Must(G.Sub(targets, selectedActionsValue))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	d := &DeepQ{
		behaviourPolicy:      behaviour,
		targetPolicy:         targetPolicy,
		trainNet:             trainNet,
		solver:               config.Solver,
		targetNet:            targetNet,
		targetNetVM:          targetNetVM,
		nextNet:              nextNet,
		nextNetVM:            nextNetVM,
		doubleQ:              config.DoubleQ,
		tau:                  config.Tau,
		targetUpdateInterval: config.TargetUpdateInterval,
		explorationSteps:     config.ExplorationSteps,
		selectedActions:      selectedActions,
		targets:              targets,
		loss:                 cost,
		numActions:           numActions,
		batchSize:            batchSize,
	}
	G.Read(cost, &d.lossVal)

	// Compute the gradient with respect to the Mean Squarred TD error
	if _, err = G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %w", err)
	}

	// Compile the trainNet graph into a VM
	d.trainNetVM = G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	// Create the experience replay buffer. The replay buffer stores
	// actions selected as one-hot vectors
	d.replay, err = config.ExpReplay.Create(numFeatures, numActions, seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience replay "+
			"buffer: %w", err)
	}

	return d, nil
}

// ObserveFirst observes and records the first episodic timestep
func (d *DeepQ) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep is not the first in "+
			"the episode (step number = %d)", t.Number)
	}
	d.prevStep = t
	return nil
}

// Observe observes and records any timestep other than the first
// timestep. In training mode, the transition from the previously
// observed timestep is added to the replay buffer.
func (d *DeepQ) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", action.Len())
	}
	act := int(action.AtVec(0))
	if act < 0 || act >= d.numActions {
		return fmt.Errorf("observe: illegal action %v", act)
	}

	if !d.eval {
		oneHot := mat.NewVecDense(d.numActions, nil)
		oneHot.SetVec(act, 1.0)

		transition := ts.NewTransition(d.prevStep, oneHot, nextStep)
		if err := d.replay.Add(transition); err != nil {
			return fmt.Errorf("observe: %w", err)
		}
		d.totalSteps++
	}

	d.prevStep = nextStep
	return nil
}

// Step updates the weights of the Agent's Policies.
func (d *DeepQ) Step() error {
	if d.eval || d.totalSteps < d.explorationSteps {
		return nil
	}

	// Don't update if replay buffer is empty or has insufficient
	// samples to sample
	S, A, R, discount, NextS, err := d.replay.Sample()
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	nextValues, err := d.bootstrapValues(NextS)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	targets := make([]float64, d.batchSize)
	for i := range targets {
		targets[i] = R[i] + discount[i]*nextValues[i]
	}

	// Previous action one-hot vectors
	prevActions := tensor.New(
		tensor.WithShape(d.batchSize, d.numActions),
		tensor.WithBacking(A),
	)
	if err := G.Let(d.selectedActions, prevActions); err != nil {
		return fmt.Errorf("step: could not set actions: %w", err)
	}

	targetTensor := tensor.New(
		tensor.WithShape(d.batchSize),
		tensor.WithBacking(targets),
	)
	if err := G.Let(d.targets, targetTensor); err != nil {
		return fmt.Errorf("step: could not set targets: %w", err)
	}

	if err := d.trainNet.SetInput(S); err != nil {
		return fmt.Errorf("step: could not set trainNet input: %w", err)
	}

	// Run the learning step
	if err := d.trainNetVM.RunAll(); err != nil {
		return fmt.Errorf("step: could not run trainNet: %w", err)
	}
	if err := d.solver.Step(d.trainNet.Model()); err != nil {
		return fmt.Errorf("step: could not step solver: %w", err)
	}
	d.trainNetVM.Reset()
	d.gradientSteps++

	// Update the target network by setting its weights to the newly learned
	// weights
	if d.totalSteps%d.targetUpdateInterval == 0 {
		if d.tau == 1.0 {
			err = d.targetNet.Set(d.trainNet)
		} else {
			err = d.targetNet.Polyak(d.trainNet, d.tau)
		}
		if err != nil {
			return fmt.Errorf("step: could not update target network: %w",
				err)
		}
	}

	if err := d.targetPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not sync target policy: %w", err)
	}
	if err := d.behaviourPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not sync behaviour policy: %w", err)
	}
	d.behaviourPolicy.Anneal()

	return nil
}

// bootstrapValues returns the value of the bootstrap action in each
// next state of the batch according to the target network. The
// bootstrap action is greedy with respect to the target network, or
// to the online network if using double Q-learning.
func (d *DeepQ) bootstrapValues(nextStates []float64) ([]float64, error) {
	targetValues, err := runBatch(d.targetNet, d.targetNetVM, nextStates)
	if err != nil {
		return nil, fmt.Errorf("bootstrapValues: %w", err)
	}

	var onlineValues []float64
	if d.doubleQ {
		if err := d.nextNet.Set(d.trainNet); err != nil {
			return nil, fmt.Errorf("bootstrapValues: %w", err)
		}
		onlineValues, err = runBatch(d.nextNet, d.nextNetVM, nextStates)
		if err != nil {
			return nil, fmt.Errorf("bootstrapValues: %w", err)
		}
	}

	values := make([]float64, d.batchSize)
	for i := range values {
		row := targetValues[i*d.numActions : (i+1)*d.numActions]
		if !d.doubleQ {
			values[i], _ = floatutils.MaxSlice(row)
			continue
		}

		onlineRow := onlineValues[i*d.numActions : (i+1)*d.numActions]
		_, maxIndices := floatutils.MaxSlice(onlineRow)
		values[i] = row[maxIndices[0]]
	}
	return values, nil
}

// runBatch runs net on input and returns a copy of its output
func runBatch(net network.NeuralNet, vm G.VM, input []float64) ([]float64,
	error) {
	if err := net.SetInput(input); err != nil {
		return nil, err
	}
	defer vm.Reset()

	if err := vm.RunAll(); err != nil {
		return nil, err
	}

	output := net.Output().Data().([]float64)
	values := make([]float64, len(output))
	copy(values, output)
	return values, nil
}

// SelectAction returns an action selected by the behaviour policy in
// training mode or by the greedy target policy in evaluation mode.
func (d *DeepQ) SelectAction(t ts.TimeStep) (*mat.VecDense, error) {
	if d.eval {
		return d.targetPolicy.SelectAction(t)
	}
	return d.behaviourPolicy.SelectAction(t)
}

// Loss returns the mean squared TD error of the last learning step
func (d *DeepQ) Loss() float64 {
	if d.lossVal == nil {
		return 0
	}
	return d.lossVal.Data().(float64)
}

// TotalSteps returns the number of transitions observed in training
// mode
func (d *DeepQ) TotalSteps() int {
	return d.totalSteps
}

// GradientSteps returns the number of learning steps taken
func (d *DeepQ) GradientSteps() int {
	return d.gradientSteps
}

// Epsilon returns the current exploration rate of the behaviour policy
func (d *DeepQ) Epsilon() float64 {
	return d.behaviourPolicy.Epsilon()
}

// Eval sets the agent into evaluation mode
func (d *DeepQ) Eval() {
	d.eval = true
}

// Train sets the agent into training mode
func (d *DeepQ) Train() {
	d.eval = false
}

// IsEval returns whether the agent is in evaluation mode
func (d *DeepQ) IsEval() bool {
	return d.eval
}

// EndEpisode performs cleanup at the end of an episode
func (d *DeepQ) EndEpisode() {}

// Close closes all VMs used by the agent
func (d *DeepQ) Close() error {
	vms := []G.VM{d.trainNetVM, d.targetNetVM}
	if d.nextNetVM != nil {
		vms = append(vms, d.nextNetVM)
	}

	for _, vm := range vms {
		if err := vm.Close(); err != nil {
			return err
		}
	}
	if err := d.behaviourPolicy.Close(); err != nil {
		return err
	}
	return d.targetPolicy.Close()
}
