package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// Config holds the parameters of a replay.
type Config struct {
	Viewer     string  // opengl or terminal
	Dataset    string  // name of the dataset of fish states
	ForcePause bool    // step manually only?
	Delay      float64 // seconds between steps in the terminal

	Width  float64 // size of the recorded space along x
	Height float64 // size of the recorded space along y
	Vision float64 // radius of the highlighted neighborhood
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Viewer:  "opengl",
	Dataset: "fish",
	Delay:   0.1,
	Width:   shoal.DefaultParams.Width,
	Height:  shoal.DefaultParams.Height,
	Vision:  shoal.DefaultParams.Vision,
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
	switch conf.Viewer {
	case "opengl", "terminal":
	default:
		return nil, fmt.Errorf("bad viewer %q: %w", conf.Viewer, shoal.ErrConfig)
	}
	if conf.Delay < 0 {
		return nil, fmt.Errorf("delay must not be negative, got %g: %w", conf.Delay, shoal.ErrConfig)
	}
	return conf, nil
}
