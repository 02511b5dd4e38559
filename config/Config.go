// Package config holds the configuration of a qconverge run and builds
// the environment, agent, and session parameters it describes.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/qconverge/initwfn"
	"github.com/samuelfneumann/qconverge/network"
	"github.com/samuelfneumann/qconverge/solver"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "QCONVERGE"

// Config holds all run configuration
type Config struct {
	// Network and learner
	Layers             []int   `mapstructure:"layers"`
	StepSize           float64 `mapstructure:"step_size"`
	BatchSize          int     `mapstructure:"batch_size"`
	ReplayCapacity     int     `mapstructure:"replay_capacity"`
	Discount           float64 `mapstructure:"discount"`
	TargetSyncInterval int     `mapstructure:"target_sync_interval"`
	ExplorationSteps   int     `mapstructure:"exploration_steps"`
	DoubleQ            bool    `mapstructure:"double_q"`
	Tau                float64 `mapstructure:"tau"`
	Solver             string  `mapstructure:"solver"`
	Activation         string  `mapstructure:"activation"`

	// Exploration schedule
	InitialEpsilon float64 `mapstructure:"initial_epsilon"`
	AnnealInterval int     `mapstructure:"anneal_interval"`
	MinEpsilon     float64 `mapstructure:"min_epsilon"`

	// Weight initialization
	Init       string  `mapstructure:"init"`
	InitMean   float64 `mapstructure:"init_mean"`
	InitStdDev float64 `mapstructure:"init_stddev"`
	InitGain   float64 `mapstructure:"init_gain"`

	// Environment
	StepLimit int `mapstructure:"step_limit"`

	// Session
	MaxEpisodes          int     `mapstructure:"max_episodes"`
	ConvergenceThreshold float64 `mapstructure:"convergence_threshold"`
	TestEpisodes         int     `mapstructure:"test_episodes"`

	// Run
	Seed     uint64 `mapstructure:"seed"`
	LogLevel string `mapstructure:"log_level"`
	PlotFile string `mapstructure:"plot_file"`
	DataFile string `mapstructure:"data_file"`
	Progress bool   `mapstructure:"progress"`
}

// Default returns a config with the reference Cartpole settings
func Default() *Config {
	return &Config{
		Layers:             []int{64, 32},
		StepSize:           0.01,
		BatchSize:          20,
		ReplayCapacity:     10000,
		Discount:           0.99,
		TargetSyncInterval: 100,
		ExplorationSteps:   100,
		DoubleQ:            false,
		Tau:                1.0,
		Solver:             string(solver.Adam),
		Activation:         "relu",

		InitialEpsilon: 1.0,
		AnnealInterval: 1000,
		MinEpsilon:     0.1,

		Init:       string(initwfn.Gaussian),
		InitMean:   0,
		InitStdDev: 0.001,
		InitGain:   1.0,

		StepLimit: 400,

		MaxEpisodes:          1000,
		ConvergenceThreshold: 50,
		TestEpisodes:         20,

		Seed:     0,
		LogLevel: "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, size := range c.Layers {
		if size <= 0 {
			return fmt.Errorf("layers must have positive sizes, have %v",
				c.Layers)
		}
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("step_size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.ReplayCapacity < c.BatchSize {
		return fmt.Errorf("replay_capacity must be at least batch_size")
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1]")
	}
	if c.TargetSyncInterval <= 0 {
		return fmt.Errorf("target_sync_interval must be positive")
	}
	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("tau must be in (0, 1]")
	}
	if _, err := solver.ParseType(c.Solver); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if _, err := network.ParseActivation(c.Activation); err != nil {
		return fmt.Errorf("activation: %w", err)
	}
	if c.ExplorationSteps < 0 {
		return fmt.Errorf("exploration_steps must be non-negative")
	}
	if c.InitialEpsilon < 0 || c.InitialEpsilon > 1 {
		return fmt.Errorf("initial_epsilon must be in [0, 1]")
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > c.InitialEpsilon {
		return fmt.Errorf("min_epsilon must be in [0, initial_epsilon]")
	}
	if c.AnnealInterval < 0 {
		return fmt.Errorf("anneal_interval must be non-negative")
	}
	if _, err := initwfn.ParseType(c.Init); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if c.InitStdDev <= 0 {
		return fmt.Errorf("init_stddev must be positive")
	}
	if c.InitGain <= 0 {
		return fmt.Errorf("init_gain must be positive")
	}
	if c.MaxEpisodes <= 0 {
		return fmt.Errorf("max_episodes must be positive")
	}
	if c.TestEpisodes < 0 {
		return fmt.Errorf("test_episodes must be non-negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the zerolog level named by LogLevel
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// BindFlags defines a flag for every field of the Config on fs, with
// defaults taken from Default, and binds each flag to v
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := Default()

	fs.IntSlice("layers", d.Layers, "Hidden layer sizes")
	fs.Float64("step-size", d.StepSize, "Adam step size")
	fs.Int("batch-size", d.BatchSize, "Replay batch size")
	fs.Int("replay-capacity", d.ReplayCapacity, "Replay buffer capacity")
	fs.Float64("discount", d.Discount, "Discount factor")
	fs.Int("target-sync-interval", d.TargetSyncInterval, "Steps between target network syncs")
	fs.Int("exploration-steps", d.ExplorationSteps, "Steps before learning starts")
	fs.Bool("double-q", d.DoubleQ, "Use double Q-learning targets")
	fs.Float64("tau", d.Tau, "Polyak averaging constant for target syncs (1 for a hard copy)")
	fs.String("solver", d.Solver, "Solver (Adam, Vanilla, RMSProp)")
	fs.String("activation", d.Activation, "Hidden layer activation (relu, tanh, identity)")

	fs.Float64("initial-epsilon", d.InitialEpsilon, "Initial exploration rate")
	fs.Int("anneal-interval", d.AnnealInterval, "Learning steps to anneal epsilon over")
	fs.Float64("min-epsilon", d.MinEpsilon, "Minimum exploration rate")

	fs.String("init", d.Init, "Weight initializer (Gaussian, GlorotU, GlorotN, Zeroes)")
	fs.Float64("init-mean", d.InitMean, "Mean of the Gaussian weight initializer")
	fs.Float64("init-stddev", d.InitStdDev, "Standard deviation of the Gaussian weight initializer")
	fs.Float64("init-gain", d.InitGain, "Gain of the Glorot weight initializers")

	fs.Int("step-limit", d.StepLimit, "Maximum steps per episode (<= 0 for no limit)")

	fs.Int("max-episodes", d.MaxEpisodes, "Training episode budget")
	fs.Float64("convergence-threshold", d.ConvergenceThreshold, "Average return that must be exceeded to converge")
	fs.Int("test-episodes", d.TestEpisodes, "Deterministic episodes run after convergence")

	fs.Uint64("seed", d.Seed, "Random seed")
	fs.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("plot", d.PlotFile, "Write the learning curve as HTML to this file")
	fs.String("data", d.DataFile, "Write the training returns with gob to this file")
	fs.Bool("progress", d.Progress, "Display a progress bar")

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = v.BindPFlag(flagKey(f.Name), f)
	})
	return err
}

// flagKey maps a flag name to its configuration key
func flagKey(name string) string {
	switch name {
	case "plot":
		return "plot_file"
	case "data":
		return "data_file"
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Load reads the Config from v. Values are taken, in increasing order
// of precedence, from Default, the config file set on v, QCONVERGE_*
// environment variables, and bound flags.
func Load(v *viper.Viper) (*Config, error) {
	d := Default()
	v.SetDefault("layers", d.Layers)
	v.SetDefault("step_size", d.StepSize)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("replay_capacity", d.ReplayCapacity)
	v.SetDefault("discount", d.Discount)
	v.SetDefault("target_sync_interval", d.TargetSyncInterval)
	v.SetDefault("exploration_steps", d.ExplorationSteps)
	v.SetDefault("double_q", d.DoubleQ)
	v.SetDefault("tau", d.Tau)
	v.SetDefault("solver", d.Solver)
	v.SetDefault("activation", d.Activation)
	v.SetDefault("initial_epsilon", d.InitialEpsilon)
	v.SetDefault("anneal_interval", d.AnnealInterval)
	v.SetDefault("min_epsilon", d.MinEpsilon)
	v.SetDefault("init", d.Init)
	v.SetDefault("init_mean", d.InitMean)
	v.SetDefault("init_stddev", d.InitStdDev)
	v.SetDefault("init_gain", d.InitGain)
	v.SetDefault("step_limit", d.StepLimit)
	v.SetDefault("max_episodes", d.MaxEpisodes)
	v.SetDefault("convergence_threshold", d.ConvergenceThreshold)
	v.SetDefault("test_episodes", d.TestEpisodes)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("plot_file", d.PlotFile)
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("progress", d.Progress)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load: could not read config file: %w",
				err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: invalid configuration: %w", err)
	}
	return cfg, nil
}
