package plot

import (
	"bytes"
	"testing"

	"github.com/sowasser/fish-shoaling-model/collect"
	"github.com/sowasser/fish-shoaling-model/stats"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestTimeSeries(t *testing.T) {
	var c collect.Collector
	for k := 0; k < 10; k++ {
		c.Rows = append(c.Rows, collect.Row{
			Step:   k,
			Record: stats.Record{Polarization: 1 / float64(k+1), NND: float64(k), Area: 50 + float64(k*k), Centroid: 3},
		})
	}
	for _, name := range stats.Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TimeSeries(&buf, &c, name); err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Error("Expected a PNG image")
			}
		})
	}

	if err := TimeSeries(&bytes.Buffer{}, &collect.Collector{Rows: c.Rows[:1]}, "nnd"); err == nil {
		t.Error("Expected an error for a single step")
	}
	if err := TimeSeries(&bytes.Buffer{}, &c, "mass"); err == nil {
		t.Error("Expected an error for an unknown statistic")
	}
}

func TestBars(t *testing.T) {
	var buf bytes.Buffer
	err := Bars(&buf, "nnd", []string{"speed=1", "speed=2", "speed=3"}, []float64{1.5, 2.5, 4})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("Expected a PNG image")
	}
	if err := Bars(&buf, "nnd", []string{"a"}, nil); err == nil {
		t.Error("Expected an error for mismatched labels and values")
	}
}
