// Command qconverge trains a deep Q-learning agent on Cartpole until the
// running mean of its training returns exceeds a threshold, then
// evaluates it greedily.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/qconverge/agent"
	"github.com/samuelfneumann/qconverge/config"
	"github.com/samuelfneumann/qconverge/experiment"
	"github.com/samuelfneumann/qconverge/experiment/tracker"
)

var (
	v          = viper.New()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "qconverge",
	Short: "Train DQN on Cartpole until it converges",
	Long: `qconverge trains a deep Q-learning agent on the Cartpole balance task.

Training runs until the average return over all training episodes
exceeds the convergence threshold or the episode budget is exhausted.
A converged agent is then evaluated greedily over a number of test
episodes.`,
	SilenceUsage: true,
	RunE:         runQConverge,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Configuration file (yaml, json, or toml)")
	if err := config.BindFlags(rootCmd.Flags(), v); err != nil {
		panic(fmt.Sprintf("could not bind flags: %v", err))
	}
}

func runQConverge(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.Level()).
		With().
		Timestamp().
		Str("session", uuid.New().String()).
		Logger()

	result, err := run(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		logger.Error().Err(err).Msg("session failed")
		return err
	}

	if result.Converged() {
		fmt.Fprintln(cmd.OutOrStdout(), aurora.Green(result))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), aurora.Red(result))
	}
	return nil
}

// run builds the environment and agent described by cfg and runs a
// training session, writing the optional plot and data files
func run(cfg *config.Config, logger zerolog.Logger,
	out io.Writer) (experiment.Result, error) {
	e, _, err := cfg.EnvConfig().Create(cfg.Seed)
	if err != nil {
		return experiment.Result{}, fmt.Errorf("run: %w", err)
	}

	agentConfig, err := cfg.DeepQConfig()
	if err != nil {
		return experiment.Result{}, fmt.Errorf("run: %w", err)
	}
	a, err := agentConfig.CreateAgent(e, cfg.Seed)
	if err != nil {
		return experiment.Result{}, fmt.Errorf("run: %w", err)
	}
	if closer, ok := a.(agent.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn().Err(err).Msg("could not close agent")
			}
		}()
	}

	episodic := experiment.NewEpisodic(e, a)
	if cfg.DataFile != "" {
		episodic.Register(tracker.NewReturn(cfg.DataFile))
	}

	reporters := []experiment.Reporter{experiment.NewLogReporter(logger)}
	var chart *experiment.ChartReporter
	if cfg.PlotFile != "" {
		chart = experiment.NewChartReporter("Cart Pole with DQN")
		reporters = append(reporters, chart)
	}
	if cfg.Progress {
		reporters = append(reporters,
			experiment.NewProgressReporter(out, cfg.MaxEpisodes))
	}

	logger.Info().
		Ints("layers", cfg.Layers).
		Int("max_episodes", cfg.MaxEpisodes).
		Float64("threshold", cfg.ConvergenceThreshold).
		Str("solver", cfg.Solver).
		Str("init", cfg.Init).
		Str("activation", cfg.Activation).
		Float64("tau", cfg.Tau).
		Uint64("seed", cfg.Seed).
		Msg("starting session")

	result, err := experiment.RunSession(episodic, cfg.MaxEpisodes,
		cfg.ConvergenceThreshold, cfg.TestEpisodes,
		experiment.NewMultiReporter(reporters...))
	if err != nil {
		return experiment.Result{}, fmt.Errorf("run: %w", err)
	}

	if cfg.DataFile != "" {
		if err := episodic.Save(); err != nil {
			return result, fmt.Errorf("run: %w", err)
		}
		logger.Info().Str("file", cfg.DataFile).Msg("saved training returns")
	}

	if chart != nil {
		if err := writeChart(chart, cfg.PlotFile); err != nil {
			return result, fmt.Errorf("run: %w", err)
		}
		logger.Info().Str("file", cfg.PlotFile).Msg("saved learning curve")
	}

	return result, nil
}

func writeChart(chart *experiment.ChartReporter, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("writeChart: %w", err)
	}
	if err := chart.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("writeChart: %w", err)
	}
	return f.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
