// Package plot renders shoal statistics as PNG charts.
package plot

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/sowasser/fish-shoaling-model/collect"
)

// Size of rendered charts in pixels.
const (
	Width  = 800
	Height = 400
)

// colors of the statistics, in the order of stats.Names.
var colors = map[string]drawing.Color{
	"polarization": chart.ColorBlue,
	"nnd":          chart.ColorGreen,
	"area":         chart.ColorRed,
	"centroid":     drawing.Color{R: 255, G: 165, B: 0, A: 255},
}

// TimeSeries renders the statistic with the given name over time.
func TimeSeries(w io.Writer, c *collect.Collector, name string) error {
	if len(c.Rows) < 2 {
		return fmt.Errorf("plot: need at least 2 steps to plot %s, got %d", name, len(c.Rows))
	}
	x, err := c.Series("step")
	if err != nil {
		return err
	}
	y, err := c.Series(name)
	if err != nil {
		return err
	}
	graph := chart.Chart{
		Title:  name,
		Width:  Width,
		Height: Height,
		XAxis: chart.XAxis{
			Name:  "step",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  name,
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: x,
				YValues: y,
				Style:   chart.Style{StrokeColor: colors[name], StrokeWidth: 2.0},
			},
		},
	}
	if lo, hi := floats.Min(y), floats.Max(y); lo == hi {
		// a flat series has no range to scale to
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return graph.Render(chart.PNG, w)
}

// Bars renders one bar per label, e.g. the mean final value of a statistic
// for every parameter combination of a batch.
func Bars(w io.Writer, title string, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return fmt.Errorf("plot: %d labels for %d values", len(labels), len(values))
	}
	if len(values) == 0 {
		return fmt.Errorf("plot: nothing to plot for %s", title)
	}
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{Value: v, Label: labels[i]}
	}
	graph := chart.BarChart{
		Title:    title,
		Width:    Width,
		Height:   Height,
		BarWidth: Width / (2*len(bars) + 1),
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		XAxis: chart.Style{FontSize: 8.0},
		YAxis: chart.YAxis{Style: chart.Style{FontSize: 10.0}},
		Bars:  bars,
	}
	return graph.Render(chart.PNG, w)
}
