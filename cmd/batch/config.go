package main

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/batch"
)

// Config holds the parameters of a batch of simulations.
type Config struct {
	Base  shoal.Params // parameters shared by all runs
	Sweep batch.Sweep  // values of the varying parameters

	Iterations int   // number of runs per combination
	Steps      int   // number of steps per run
	Workers    int   // number of parallel runs, number of CPUs if 0
	Seed       int64 // seed of the first run, 0 for the current time

	Output    string // path of the CSV results file, if any
	SeriesDir string // directory of the per-run CSV time series, if any
	PlotDir   string // directory of the PNG summary plots, if any

	LogLevel string // debug, info, warn or error
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Base:       shoal.DefaultParams,
	Iterations: 5,
	Steps:      100,
	LogLevel:   "info",
}

// defaults returns a copy of the default parameters.
func defaults() *Config {
	conf := *DefaultConf
	return &conf
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := defaults()
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%s: unknown keys %v: %w", path, keys, shoal.ErrConfig)
	}
	return conf, conf.Validate()
}

// Validate checks the parameters of every combination and of the driver.
func (c *Config) Validate() error {
	for _, p := range c.Sweep.Combinations(c.Base) {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", c.Sweep.Label(p), err)
		}
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d: %w", c.Iterations, shoal.ErrConfig)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d: %w", c.Steps, shoal.ErrConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d: %w", c.Workers, shoal.ErrConfig)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("bad log level %q: %w", c.LogLevel, shoal.ErrConfig)
	}
	return nil
}

// level returns the configured log level, info if unknown.
func (c *Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
