package experiment

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/qconverge/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/qconverge/experiment/tracker"
	ts "github.com/samuelfneumann/qconverge/timestep"
)

// pushAgent always pushes the cart in the same direction and counts
// the calls it receives
type pushAgent struct {
	action      float64
	eval        bool
	observed    int
	steps       int
	episodes    int
	selectError error
}

func (p *pushAgent) Step() error {
	p.steps++
	return nil
}

func (p *pushAgent) Observe(mat.Vector, ts.TimeStep) error {
	p.observed++
	return nil
}

func (p *pushAgent) ObserveFirst(ts.TimeStep) error { return nil }
func (p *pushAgent) EndEpisode()                    { p.episodes++ }
func (p *pushAgent) Eval()                          { p.eval = true }
func (p *pushAgent) Train()                         { p.eval = false }
func (p *pushAgent) IsEval() bool                   { return p.eval }

func (p *pushAgent) SelectAction(ts.TimeStep) (*mat.VecDense, error) {
	if p.selectError != nil {
		return nil, p.selectError
	}
	return mat.NewVecDense(1, []float64{p.action}), nil
}

func newEpisodic(t *testing.T, a *pushAgent,
	trackers ...tracker.Tracker) *Episodic {
	task, err := cartpole.NewDefaultBalance(400, 9)
	require.NoError(t, err)
	env, _, err := cartpole.NewDiscrete(task, 0.99)
	require.NoError(t, err)
	return NewEpisodic(env, a, trackers...)
}

func TestEpisodicRunEpisode(t *testing.T) {
	a := &pushAgent{action: 1}
	filename := filepath.Join(t.TempDir(), "returns.bin")
	returns := tracker.NewReturn(filename)
	e := newEpisodic(t, a, returns)

	ret, err := e.RunEpisode()
	require.NoError(t, err)

	// Always pushing one way drops the pole long before the step limit
	assert.Greater(t, ret, 0.0)
	assert.Less(t, ret, 400.0)
	assert.Equal(t, int(ret), a.observed)
	assert.Equal(t, a.observed, a.steps)
	assert.Equal(t, 1, a.episodes)
	assert.Equal(t, []float64{ret}, returns.Data())

	// Deterministic episodes are not tracked
	e.SetDeterministic(true)
	assert.True(t, a.IsEval())
	_, err = e.RunEpisode()
	require.NoError(t, err)
	assert.Len(t, returns.Data(), 1)

	e.SetDeterministic(false)
	assert.False(t, a.IsEval())
	require.NoError(t, e.Save())

	data, err := tracker.LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{ret}, data)
}

func TestEpisodicErrors(t *testing.T) {
	errPolicy := errors.New("policy failure")
	e := newEpisodic(t, &pushAgent{selectError: errPolicy})

	_, err := e.RunEpisode()
	assert.ErrorIs(t, err, errPolicy)

	// Illegal actions are reported by the environment
	e = newEpisodic(t, &pushAgent{action: 3})
	_, err = e.RunEpisode()
	assert.Error(t, err)

	_, err = RunSession(e, 5, 0, 1, nil)
	assert.Error(t, err)
}
