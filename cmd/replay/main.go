// Command replay displays a shoal simulation recorded to HDF5 by the shoal command.
//
// # Usage
//
//	replay hdf5_file [config_file]
//
// The first argument is the path to the recording. The second one is
// optional and is the path to a TOML config file, for example:
//
//	Viewer = "terminal"
//	Width = 100.0
//	Height = 100.0
//
// Width and Height must match the recorded run. The recording is
// played in a loop, with the same keys as the shoal command.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/hdf5"
	"github.com/sowasser/fish-shoaling-model/opengl"
	"github.com/sowasser/fish-shoaling-model/term"
)

const usage = `Usage: replay hdf5_file [config_file]

The first argument is the path to an HDF5 file recorded by shoal.
The second argument is optional and is the path to a TOML config file.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 2:
		conf = defaults()
	case 3:
		conf, err = ParseConfig(os.Args[2])
	default:
		err = fmt.Errorf("%d arguments provided (1 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}
	if err := run(os.Args[1], conf); err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// run plays the recording at path in the configured viewer.
func run(path string, conf *Config) (err error) {
	l, err := hdf5.NewLoader(path, conf.Dataset)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := l.Close(); err == nil {
			err = cerr
		}
	}()
	slog.Info("replaying", "path", path, "steps", l.Steps(), "population", l.Population())

	sim, err := setup(l, conf)
	if err != nil {
		return err
	}
	step := func() error {
		return l.Next(sim)
	}

	switch conf.Viewer {
	case "terminal":
		return term.Run(sim, &term.Config{
			Step:       step,
			ForcePause: conf.ForcePause,
			Interval:   time.Duration(conf.Delay * float64(time.Second)),
		})
	default:
		return opengl.Run(sim, &opengl.Config{
			Step:       step,
			ForcePause: conf.ForcePause,
			Xmax:       conf.Width,
			Ymax:       conf.Height,
		})
	}
}

// setup creates a simulation holding as many fish as recorded,
// in the first recorded state.
func setup(l *hdf5.Loader, conf *Config) (*shoal.Simulation, error) {
	p := shoal.DefaultParams
	p.Population = l.Population()
	p.Width = conf.Width
	p.Height = conf.Height
	p.Vision = conf.Vision
	p.Speed = 0
	// the random source only seeds states that are overwritten right away
	sim, err := shoal.New(p, rand.New(rand.NewSource(1)))
	if err != nil {
		return nil, err
	}
	return sim, l.Next(sim)
}
