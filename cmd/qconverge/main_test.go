package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/qconverge/config"
	"github.com/samuelfneumann/qconverge/experiment"
	"github.com/samuelfneumann/qconverge/experiment/tracker"
)

// smallConfig returns a configuration that runs quickly
func smallConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Layers = []int{8}
	cfg.BatchSize = 4
	cfg.ReplayCapacity = 100
	cfg.ExplorationSteps = 10
	cfg.TargetSyncInterval = 10
	cfg.StepLimit = 30
	cfg.MaxEpisodes = 3
	cfg.TestEpisodes = 2
	cfg.Seed = 17

	dir := t.TempDir()
	cfg.PlotFile = filepath.Join(dir, "curve.html")
	cfg.DataFile = filepath.Join(dir, "returns.bin")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunNotConverged(t *testing.T) {
	cfg := smallConfig(t)
	cfg.ConvergenceThreshold = 1000
	cfg.Progress = true

	var logs, out bytes.Buffer
	result, err := run(cfg, zerolog.New(&logs), &out)
	require.NoError(t, err)

	assert.Equal(t, experiment.NotConverged, result.Outcome)
	assert.Equal(t, 4, result.Episodes)
	assert.Contains(t, logs.String(),
		"Cart Pole with DQN failed to converge in 3 iterations.")
	assert.Contains(t, out.String(), "100.00%")

	data, err := tracker.LoadData(cfg.DataFile)
	require.NoError(t, err)
	assert.Len(t, data, 4)
	for _, ret := range data {
		assert.Greater(t, ret, 0.0)
		assert.LessOrEqual(t, ret, 30.0)
	}

	html, err := os.ReadFile(cfg.PlotFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Cart Pole with DQN")
}

func TestRunConverged(t *testing.T) {
	cfg := smallConfig(t)
	cfg.ConvergenceThreshold = 0
	cfg.DataFile = ""

	var logs bytes.Buffer
	result, err := run(cfg, zerolog.New(&logs), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, experiment.Converged, result.Outcome)
	assert.Equal(t, 1, result.Episodes)
	assert.Greater(t, result.MeanTestReturn, 0.0)
	assert.Contains(t, logs.String(), "Converged with return")
	assert.FileExists(t, cfg.PlotFile)
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--layers=8",
		"--batch-size=4",
		"--replay-capacity=50",
		"--step-limit=20",
		"--max-episodes=2",
		"--test-episodes=1",
		"--convergence-threshold=1000",
		"--log-level=error",
		"--data=" + filepath.Join(dir, "returns.bin"),
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "NotConverged{Episodes: 3}")
	assert.FileExists(t, filepath.Join(dir, "returns.bin"))
}
