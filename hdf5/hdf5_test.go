package hdf5

import (
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"

	shoal "github.com/sowasser/fish-shoaling-model"
)

func TestRecordAndLoad(t *testing.T) {
	p := shoal.DefaultParams
	p.Population = 12
	s, err := shoal.New(p, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}

	// states the recorder will see before each step
	var want [][]shoal.State
	rec := States(p.Population)
	data := rec.Data
	rec.Data = func(s *shoal.Simulation) (interface{}, error) {
		want = append(want, s.States())
		return data(s)
	}

	out := filepath.Join(t.TempDir(), "run", "shoal.h5")
	meta := struct {
		Seed   int64
		Params shoal.Params
	}{Seed: 11, Params: p}
	err = Run(s, &Config{
		Output:   out,
		Steps:    4,
		Datasets: []*Dataset{rec, Statistics()},
		Meta:     &meta,
		RunID:    "test",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(out, "fish")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if l.Steps() != 4 || l.Population() != 12 {
		t.Fatalf("Expected 4 steps of 12 fish, got %d steps of %d fish", l.Steps(), l.Population())
	}

	replay, err := shoal.New(p, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 5; k++ {
		if err := l.Next(replay); err != nil {
			t.Fatal(err)
		}
		got := replay.States()
		for i := range got {
			if got[i] != want[k%4][i] {
				t.Fatalf("Step %d, fish %d: expected %v, got %v", k, i, want[k%4][i], got[i])
			}
		}
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.h5"), "fish"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
