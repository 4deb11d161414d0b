// Package collect accumulates shoal statistics as a time series,
// one row per step, and exports them as CSV.
package collect

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/stats"
)

// A Row is the set of statistics recorded at a given step.
type Row struct {
	Step int
	stats.Record
}

// A Collector records statistics of a simulation over time.
type Collector struct {
	Rows []Row
}

// Collect computes the statistics of the current state of s and appends them.
func (c *Collector) Collect(s *shoal.Simulation) error {
	r, err := stats.Of(s)
	if err != nil {
		return fmt.Errorf("collect: step %d: %w", s.Steps(), err)
	}
	c.Rows = append(c.Rows, Row{Step: s.Steps(), Record: r})
	return nil
}

// Run runs s for the given number of steps, collecting statistics
// before each step.
func (c *Collector) Run(s *shoal.Simulation, steps int) error {
	for k := 0; k < steps; k++ {
		if err := c.Collect(s); err != nil {
			return err
		}
		s.Step()
	}
	return nil
}

// Series returns the column of the statistic with the given name
// (one of stats.Names, or "step").
func (c *Collector) Series(name string) ([]float64, error) {
	col := -1
	for i, n := range stats.Names {
		if n == name {
			col = i
		}
	}
	if col < 0 && name != "step" {
		return nil, fmt.Errorf("collect: unknown statistic %q", name)
	}
	out := make([]float64, len(c.Rows))
	for i, r := range c.Rows {
		if col < 0 {
			out[i] = float64(r.Step)
		} else {
			out[i] = r.Values()[col]
		}
	}
	return out, nil
}

// Header returns the CSV header written by WriteCSV.
func Header() []string {
	return append([]string{"step"}, stats.Names...)
}

// WriteCSV writes all rows to w as CSV, preceded by a header.
func (c *Collector) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, r := range c.Rows {
		if err := cw.Write(Record(r.Step, r.Record)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record formats a step and its statistics as CSV fields.
func Record(step int, r stats.Record) []string {
	rec := []string{strconv.Itoa(step)}
	for _, v := range r.Values() {
		rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return rec
}
