// Command shoal runs a single shoaling fish simulation.
//
// # Usage
//
// The shoal command takes one optional argument:
//
//	shoal [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
//
// # Config file
//
// The config file is written in TOML, see https://toml.io.
// Fields not set in the file keep their default values, for example:
//
//	Population = 50
//	Vision = 5
//	Viewer = ""
//	Steps = 500
//	Output = "out/run.h5"
//	CSV = "out/run.csv"
//	PlotDir = "out/plots"
//
// # Interactive mode
//
// With Viewer set to "opengl" or "terminal", the simulation can be
// paused and resumed with space. While in pause, pressing right arrow
// performs a single step. Tab and shift tab cycle through focal fish,
// whose neighbors are highlighted. Pressing Esc quits.
//
// # Batch mode
//
// With an empty Viewer, the simulation runs for Steps steps.
// Statistics are collected before each step and written to CSV
// and plotted if requested. Fish states and statistics are recorded
// to HDF5 if Output is set.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/collect"
	"github.com/sowasser/fish-shoaling-model/hdf5"
	"github.com/sowasser/fish-shoaling-model/opengl"
	"github.com/sowasser/fish-shoaling-model/plot"
	"github.com/sowasser/fish-shoaling-model/stats"
	"github.com/sowasser/fish-shoaling-model/term"
)

const usage = `Usage: shoal [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = defaults()
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: conf.level()}))
	slog.SetDefault(log)

	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := shoal.New(conf.Params, rand.New(rand.NewSource(seed)))
	if err != nil {
		Fatal(err)
	}
	log.Info("simulation ready", "population", conf.Population, "width", conf.Width, "height", conf.Height, "seed", seed)

	c := new(collect.Collector)
	step := func() error {
		if conf.CSV != "" || conf.PlotDir != "" {
			if err := c.Collect(sim); err != nil {
				return err
			}
		}
		sim.Step()
		return nil
	}

	switch conf.Viewer {
	case "opengl":
		err = opengl.Run(sim, &opengl.Config{
			Step: step,
			Xmax: conf.Width,
			Ymax: conf.Height,
		})
	case "terminal":
		err = term.Run(sim, &term.Config{
			Step:     step,
			Interval: time.Duration(conf.Delay * float64(time.Second)),
		})
	case "":
		err = record(sim, conf, c, log)
	}
	if err == nil {
		err = export(conf, c, log)
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// record runs the simulation non-interactively for conf.Steps steps,
// saving states and statistics to HDF5 if an output file is set.
func record(sim *shoal.Simulation, conf *Config, c *collect.Collector, log *slog.Logger) error {
	if conf.Output == "" {
		return c.Run(sim, conf.Steps)
	}
	return hdf5.Run(sim, &hdf5.Config{
		Output:   conf.Output,
		Steps:    conf.Steps,
		Datasets: []*hdf5.Dataset{hdf5.States(conf.Population), collected(c)},
		Meta:     conf,
		RunID:    uuid.NewString(),
		Logger:   log,
	})
}

// collected is the "stats" dataset, which also appends every record to c.
func collected(c *collect.Collector) *hdf5.Dataset {
	d := hdf5.Statistics()
	d.Data = func(s *shoal.Simulation) (interface{}, error) {
		if err := c.Collect(s); err != nil {
			return nil, err
		}
		r := c.Rows[len(c.Rows)-1].Record
		return &r, nil
	}
	return d
}

// export writes the collected statistics to CSV and plots them.
func export(conf *Config, c *collect.Collector, log *slog.Logger) error {
	if conf.CSV != "" {
		if err := create(conf.CSV, c.WriteCSV); err != nil {
			return err
		}
		log.Info("statistics written", "path", conf.CSV, "rows", len(c.Rows))
	}
	if conf.PlotDir != "" && len(c.Rows) < 2 {
		log.Warn("not enough steps to plot", "steps", len(c.Rows))
	} else if conf.PlotDir != "" {
		for _, name := range stats.Names {
			path := filepath.Join(conf.PlotDir, name+".png")
			err := create(path, func(w io.Writer) error {
				return plot.TimeSeries(w, c, name)
			})
			if err != nil {
				return err
			}
		}
		log.Info("plots written", "dir", conf.PlotDir)
	}
	return nil
}

// create creates the file at path, and its directory, and passes it to write.
func create(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer checkClose(&err, f)
	return write(f)
}

// checkClose is used to check the return from Close in a defer statement.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
