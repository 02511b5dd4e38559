package tracker

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/qconverge/timestep"
)

func episode(rewards ...float64) []ts.TimeStep {
	obs := mat.NewVecDense(1, nil)
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, obs, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, 1, obs, i+1))
	}
	return steps
}

func TestReturnTracksEpisodes(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	tracker := NewReturn(filename)

	for _, step := range episode(1, 1, 1) {
		tracker.Track(step)
	}
	for _, step := range episode(2, 0.5) {
		tracker.Track(step)
	}

	// Unfinished episodes are not recorded
	for _, step := range episode(5, 5)[:2] {
		tracker.Track(step)
	}
	assert.Equal(t, []float64{3, 2.5}, tracker.Data())

	require.NoError(t, tracker.Save())
	data, err := LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2.5}, data)
}

func TestReturnPanicsOnSkippedStep(t *testing.T) {
	tracker := NewReturn("unused")
	steps := episode(1, 1, 1)

	tracker.Track(steps[0])
	assert.Panics(t, func() { tracker.Track(steps[2]) })
}

func TestLoadDataErrors(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
