package experiment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReporterMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	reporter := NewLogReporter(logger)

	reporter.Episode(3, 12.5, 20)
	reporter.Converged(3, 199.5)
	reporter.NotConverged(1000)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Average return: 12.5 Episode return: 20")
	assert.Contains(t, lines[0], `"episode":3`)
	assert.Contains(t, lines[1],
		"Converged with return 199.5 with number of 3 iterations")
	assert.Contains(t, lines[2],
		"Cart Pole with DQN failed to converge in 1000 iterations.")
	assert.Contains(t, lines[2], `"level":"warn"`)
}

func TestMultiReporterFansOut(t *testing.T) {
	r1, r2 := &recorder{}, &recorder{}
	multi := NewMultiReporter(r1, nil, r2)
	assert.Len(t, multi, 2)

	runner := &scriptedRunner{train: constant(100), test: constant(90)}
	_, err := RunSession(runner, 10, 50, 2, multi)
	require.NoError(t, err)

	for _, r := range []*recorder{r1, r2} {
		assert.Equal(t, []int{1}, r.episodes)
		assert.Equal(t, []float64{1, 90}, r.converged)
	}
}

func TestChartReporterRender(t *testing.T) {
	chart := NewChartReporter("Cart Pole DQN")
	runner := &scriptedRunner{train: constant(5), test: constant(0)}
	_, err := RunSession(runner, 4, 50, 0, chart)
	require.NoError(t, err)
	assert.Equal(t, 5, chart.Len())

	var buf bytes.Buffer
	require.NoError(t, chart.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "Cart Pole DQN")
	assert.Contains(t, html, "Average return")
	assert.Contains(t, html, "failed to converge in 4 episodes")
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewProgressReporter(&buf, 3)

	runner := &scriptedRunner{train: constant(5), test: constant(0)}
	_, err := RunSession(runner, 3, 50, 0, reporter)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "episode 4 mean 5.00")
	assert.True(t, strings.HasSuffix(out, "\n"))
}
