// Package batch runs many independent shoal simulations over a grid of
// parameters, in parallel, and collects their statistics.
//
// Every run owns its own simulation and random source, so runs share no
// mutable state. Results do not depend on the number of workers.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/collect"
	"github.com/sowasser/fish-shoaling-model/stats"
)

// A Sweep lists the values taken by each varying parameter.
// Empty lists leave the corresponding base parameter unchanged.
type Sweep struct {
	Population []int
	Speed      []float64
	Vision     []float64
	Separation []float64
	Cohere     []float64
	Separate   []float64
	Match      []float64
}

// axis is one varying parameter of a sweep.
type axis struct {
	name string
	n    int
	set  func(p *shoal.Params, i int)
	get  func(p shoal.Params) string
}

func (sw Sweep) axes() []axis {
	f := func(name string, vals []float64, field func(p *shoal.Params) *float64) axis {
		return axis{
			name: name,
			n:    len(vals),
			set:  func(p *shoal.Params, i int) { *field(p) = vals[i] },
			get:  func(p shoal.Params) string { return strconv.FormatFloat(*field(&p), 'g', -1, 64) },
		}
	}
	return []axis{
		{
			name: "population",
			n:    len(sw.Population),
			set:  func(p *shoal.Params, i int) { p.Population = sw.Population[i] },
			get:  func(p shoal.Params) string { return strconv.Itoa(p.Population) },
		},
		f("speed", sw.Speed, func(p *shoal.Params) *float64 { return &p.Speed }),
		f("vision", sw.Vision, func(p *shoal.Params) *float64 { return &p.Vision }),
		f("separation", sw.Separation, func(p *shoal.Params) *float64 { return &p.Separation }),
		f("cohere", sw.Cohere, func(p *shoal.Params) *float64 { return &p.Cohere }),
		f("separate", sw.Separate, func(p *shoal.Params) *float64 { return &p.Separate }),
		f("match", sw.Match, func(p *shoal.Params) *float64 { return &p.Match }),
	}
}

// Combinations returns the cartesian product of the sweep applied to base.
// The last parameter varies fastest.
func (sw Sweep) Combinations(base shoal.Params) []shoal.Params {
	out := []shoal.Params{base}
	for _, a := range sw.axes() {
		if a.n == 0 {
			continue
		}
		next := make([]shoal.Params, 0, len(out)*a.n)
		for _, p := range out {
			for i := 0; i < a.n; i++ {
				q := p
				a.set(&q, i)
				next = append(next, q)
			}
		}
		out = next
	}
	return out
}

// Label describes p by the values of the varying parameters only.
func (sw Sweep) Label(p shoal.Params) string {
	var parts []string
	for _, a := range sw.axes() {
		if a.n > 0 {
			parts = append(parts, a.name+"="+a.get(p))
		}
	}
	if len(parts) == 0 {
		return "base"
	}
	return strings.Join(parts, " ")
}

// Config holds the parameters of a batch.
type Config struct {
	Base       shoal.Params // parameters not varied by the sweep
	Sweep      Sweep        // varying parameters
	Iterations int          // number of replicates per combination
	MaxSteps   int          // number of steps per run
	Workers    int          // number of parallel runs, GOMAXPROCS if not positive
	Seed       int64        // seed of the first run, incremented for every run
	TimeSeries bool         // keep the statistics of every step
	Logger     *slog.Logger // nil means slog.Default()
}

// A Result contains the outcome of a single run.
type Result struct {
	RunID     uuid.UUID
	Index     int // position of the run in the batch
	Iteration int // replicate number for these parameters
	Seed      int64
	Params    shoal.Params
	Final     stats.Record       // statistics after the last step
	Series    *collect.Collector // statistics before each step, if requested
}

// Run runs all simulations of the batch and returns their results
// in batch order. It stops at the first failed run or when ctx is done.
func Run(ctx context.Context, conf *Config) ([]Result, error) {
	if conf.Iterations <= 0 {
		return nil, fmt.Errorf("batch: iterations must be positive, got %d", conf.Iterations)
	}
	if conf.MaxSteps < 0 {
		return nil, fmt.Errorf("batch: steps must not be negative, got %d", conf.MaxSteps)
	}
	combos := conf.Sweep.Combinations(conf.Base)
	for _, p := range combos {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("batch: %s: %w", conf.Sweep.Label(p), err)
		}
	}
	log := conf.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := conf.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(combos)*conf.Iterations)
	for i := range results {
		results[i] = Result{
			RunID:     uuid.New(),
			Index:     i,
			Iteration: i % conf.Iterations,
			Seed:      conf.Seed + int64(i),
			Params:    combos[i/conf.Iterations],
		}
	}
	log.Info("starting batch", "combinations", len(combos), "runs", len(results), "steps", conf.MaxSteps, "workers", workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range results {
		r := &results[i]
		g.Go(func() error {
			if err := run(ctx, r, conf.MaxSteps, conf.TimeSeries); err != nil {
				return fmt.Errorf("batch: run %d (%s, iteration %d): %w", r.Index, conf.Sweep.Label(r.Params), r.Iteration, err)
			}
			log.Debug("run finished", "run", r.RunID, "index", r.Index, "params", conf.Sweep.Label(r.Params), "iteration", r.Iteration)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("batch finished", "runs", len(results))
	return results, nil
}

// run runs a single simulation and fills in the statistics of r.
func run(ctx context.Context, r *Result, steps int, series bool) error {
	s, err := shoal.New(r.Params, rand.New(rand.NewSource(r.Seed)))
	if err != nil {
		return err
	}
	if series {
		r.Series = new(collect.Collector)
	}
	for k := 0; k < steps; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if series {
			if err := r.Series.Collect(s); err != nil {
				return err
			}
		}
		s.Step()
	}
	r.Final, err = stats.Of(s)
	return err
}

// A Summary aggregates the final statistics of all replicates
// sharing the same parameters.
type Summary struct {
	Label  string
	Params shoal.Params
	Runs   int
	Mean   stats.Record
}

// Summarize averages the final statistics of results over replicates,
// in order of first appearance.
func Summarize(results []Result, sw Sweep) []Summary {
	var out []Summary
	index := make(map[shoal.Params]int)
	values := make(map[shoal.Params][][]float64)
	for _, r := range results {
		if _, ok := index[r.Params]; !ok {
			index[r.Params] = len(out)
			out = append(out, Summary{Label: sw.Label(r.Params), Params: r.Params})
			values[r.Params] = make([][]float64, len(stats.Names))
		}
		v := values[r.Params]
		for j, x := range r.Final.Values() {
			v[j] = append(v[j], x)
		}
	}
	for p, i := range index {
		v := values[p]
		out[i].Runs = len(v[0])
		out[i].Mean = stats.Record{
			Polarization: stat.Mean(v[0], nil),
			NND:          stat.Mean(v[1], nil),
			Area:         stat.Mean(v[2], nil),
			Centroid:     stat.Mean(v[3], nil),
		}
	}
	return out
}

// WriteCSV writes one line per run with its parameters and final statistics.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	header := []string{"run_id", "index", "iteration", "seed",
		"population", "width", "height", "speed", "vision", "separation", "cohere", "separate", "match"}
	if err := cw.Write(append(header, stats.Names...)); err != nil {
		return err
	}
	ff := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	for _, r := range results {
		p := r.Params
		rec := []string{r.RunID.String(), strconv.Itoa(r.Index), strconv.Itoa(r.Iteration), strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(p.Population), ff(p.Width), ff(p.Height), ff(p.Speed), ff(p.Vision), ff(p.Separation),
			ff(p.Cohere), ff(p.Separate), ff(p.Match)}
		for _, v := range r.Final.Values() {
			rec = append(rec, ff(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
