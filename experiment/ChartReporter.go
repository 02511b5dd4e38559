package experiment

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartReporter records the learning curve of a Session so that it can
// be rendered as an HTML line chart of episode returns and their
// running mean.
type ChartReporter struct {
	title    string
	episodes []string
	returns  []opts.LineData
	means    []opts.LineData
	outcome  string
}

// NewChartReporter returns a new ChartReporter whose chart has the
// given title
func NewChartReporter(title string) *ChartReporter {
	return &ChartReporter{title: title}
}

// Episode implements the Reporter interface
func (c *ChartReporter) Episode(episode int, mean, ret float64) {
	c.episodes = append(c.episodes, fmt.Sprintf("%d", episode))
	c.returns = append(c.returns, opts.LineData{Value: ret})
	c.means = append(c.means, opts.LineData{Value: mean})
}

// Converged implements the Reporter interface
func (c *ChartReporter) Converged(episodes int, meanTestReturn float64) {
	c.outcome = fmt.Sprintf("converged after %v episodes, test return %v",
		episodes, meanTestReturn)
}

// NotConverged implements the Reporter interface
func (c *ChartReporter) NotConverged(maxEpisodes int) {
	c.outcome = fmt.Sprintf("failed to converge in %v episodes",
		maxEpisodes)
}

// Len returns the number of episodes recorded
func (c *ChartReporter) Len() int {
	return len(c.episodes)
}

// Render writes the learning curve chart as HTML to w
func (c *ChartReporter) Render(w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    c.title,
			Subtitle: c.outcome,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Episode",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Return",
		}),
	)

	line.SetXAxis(c.episodes).
		AddSeries("Episode return", c.returns).
		AddSeries("Average return", c.means)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
