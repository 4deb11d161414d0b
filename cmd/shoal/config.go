package main

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	shoal.Params

	// Viewer is "opengl" or "terminal" for an interactive simulation,
	// or the empty string to run Steps steps without display.
	Viewer string

	Steps int     // number of steps (non-interactive only)
	Seed  int64   // seed of the random source, 0 for the current time
	Delay float64 // seconds between steps in the terminal

	Output  string // path of the HDF5 output file, if any
	CSV     string // path of the CSV statistics file, if any
	PlotDir string // directory of the PNG statistics plots, if any

	LogLevel string // debug, info, warn or error
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Params:   shoal.DefaultParams,
	Viewer:   "opengl",
	Steps:    1000,
	Delay:    0.1,
	LogLevel: "info",
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

// Validate checks the parameters of the simulation and of the drivers.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	switch c.Viewer {
	case "opengl", "terminal", "":
	default:
		return fmt.Errorf("bad viewer %q: %w", c.Viewer, shoal.ErrConfig)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d: %w", c.Steps, shoal.ErrConfig)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %g: %w", c.Delay, shoal.ErrConfig)
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
