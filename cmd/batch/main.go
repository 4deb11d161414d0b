// Command batch runs parameter sweeps of shoaling fish simulations.
//
// # Usage
//
// The batch command takes one optional argument:
//
//	batch [config_file]
//
// It is the path to a TOML config file. Without it, the default
// parameters are run Iterations times and only logged.
//
// # Config file
//
// Base parameters go in a [Base] table and the values taken by the
// varying parameters in a [Sweep] table. Every combination of the sweep
// is run Iterations times for Steps steps, for example:
//
//	Iterations = 10
//	Steps = 500
//	Output = "out/batch.csv"
//	PlotDir = "out/plots"
//
//	[Base]
//	Population = 50
//
//	[Sweep]
//	Vision = [5.0, 10.0, 15.0]
//	Speed = [1.0, 2.0]
//
// Output receives one line per run with its final statistics.
// PlotDir receives one bar chart per statistic with its mean final value
// for every combination. SeriesDir receives the statistics of every step
// of every run, in one CSV file per run.
//
// Interrupting the command stops the batch between two steps.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sowasser/fish-shoaling-model/batch"
	"github.com/sowasser/fish-shoaling-model/plot"
	"github.com/sowasser/fish-shoaling-model/stats"
)

const usage = `Usage: batch [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, the default parameters are run
and the results are only logged.
`

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, conf, log); err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// run runs the batch described by conf and writes its outputs.
func run(ctx context.Context, conf *Config, log *slog.Logger) error {
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	start := time.Now()
	results, err := batch.Run(ctx, &batch.Config{
		Base:       conf.Base,
		Sweep:      conf.Sweep,
		Iterations: conf.Iterations,
		MaxSteps:   conf.Steps,
		Workers:    conf.Workers,
		Seed:       seed,
		TimeSeries: conf.SeriesDir != "",
		Logger:     log,
	})
	if err != nil {
		return err
	}
	log.Info("batch done", "runs", len(results), "elapsed", time.Since(start).Round(time.Millisecond))

	summary := batch.Summarize(results, conf.Sweep)
	for _, s := range summary {
		log.Info("summary", "params", s.Label, "runs", s.Runs,
			"polarization", s.Mean.Polarization, "nnd", s.Mean.NND, "area", s.Mean.Area, "centroid", s.Mean.Centroid)
	}

	if conf.Output != "" {
		err := create(conf.Output, func(w io.Writer) error {
			return batch.WriteCSV(w, results)
		})
		if err != nil {
			return err
		}
		log.Info("results written", "path", conf.Output)
	}

	if conf.SeriesDir != "" {
		for _, r := range results {
			path := filepath.Join(conf.SeriesDir, r.RunID.String()+".csv")
			if err := create(path, r.Series.WriteCSV); err != nil {
				return err
			}
		}
		log.Info("time series written", "dir", conf.SeriesDir, "files", len(results))
	}

	if conf.PlotDir != "" {
		labels := make([]string, len(summary))
		for i, s := range summary {
			labels[i] = s.Label
		}
		for j, name := range stats.Names {
			values := make([]float64, len(summary))
			for i, s := range summary {
				values[i] = s.Mean.Values()[j]
			}
			path := filepath.Join(conf.PlotDir, name+".png")
			err := create(path, func(w io.Writer) error {
				return plot.Bars(w, "mean final "+name, labels, values)
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
