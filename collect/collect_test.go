package collect

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"strconv"
	"testing"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/stats"
)

func newSim(t *testing.T, population int) *shoal.Simulation {
	t.Helper()
	p := shoal.DefaultParams
	p.Population = population
	s, err := shoal.New(p, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRun(t *testing.T) {
	s := newSim(t, 30)
	var c Collector
	if err := c.Run(s, 15); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows) != 15 {
		t.Fatalf("Expected 15 rows, got %d", len(c.Rows))
	}
	if s.Steps() != 15 {
		t.Errorf("Expected 15 steps, got %d", s.Steps())
	}
	steps, err := c.Series("step")
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range steps {
		if v != float64(i) {
			t.Errorf("Expected row %d to be step %d, got %v", i, i, v)
		}
	}
	nnd, err := c.Series("nnd")
	if err != nil {
		t.Fatal(err)
	}
	if nnd[3] != c.Rows[3].NND {
		t.Errorf("Expected series value %v, got %v", c.Rows[3].NND, nnd[3])
	}
	if _, err := c.Series("speed"); err == nil {
		t.Error("Expected an error for an unknown statistic")
	}
}

func TestRunFailsOnSmallShoal(t *testing.T) {
	s := newSim(t, 4)
	var c Collector
	if err := c.Run(s, 3); err == nil {
		t.Fatal("Expected an error for a shoal of 4 fish")
	}
	if s.Steps() != 0 {
		t.Errorf("Expected no step to run, got %d", s.Steps())
	}
}

func TestWriteCSV(t *testing.T) {
	c := Collector{Rows: []Row{
		{Step: 0, Record: stats.Record{Polarization: 0.5, NND: 1.25, Area: 100, Centroid: 3}},
		{Step: 1, Record: stats.Record{Polarization: 0.25, NND: 1, Area: 90.5, Centroid: 2.5}},
	}}
	var buf bytes.Buffer
	if err := c.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d records", len(recs))
	}
	if got := recs[0]; len(got) != 5 || got[0] != "step" || got[2] != "nnd" {
		t.Errorf("Unexpected header %v", got)
	}
	if v, _ := strconv.ParseFloat(recs[2][3], 64); v != 90.5 {
		t.Errorf("Expected area 90.5, got %v", recs[2][3])
	}
}
