// Package term displays shoal simulations in a terminal.
//
// Each fish is drawn as an arrow pointing in its direction of motion and
// colored by heading. Space pauses and resumes, right arrow steps while
// paused, tab cycles through focal fish and Esc or q quits.
package term

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/palette"
	"github.com/sowasser/fish-shoaling-model/stats"
)

// Config holds the parameters of the terminal driver.
type Config struct {
	Step       func() error  // go to next step
	ForcePause bool          // step manually only?
	Interval   time.Duration // time between steps, 100ms if zero
	Screen     tcell.Screen  // nil means the terminal
}

// Run runs an interactive simulation in the terminal.
func Run(s *shoal.Simulation, conf *Config) (err error) {
	screen := conf.Screen
	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return err
		}
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	interval := conf.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events, _ := pump(screen, done)

	v := &viewer{pause: conf.ForcePause, forcePause: conf.ForcePause, focal: -1}
	v.draw(screen, s)
	for {
		select {
		case ev := <-events:
			if !v.handle(ev, len(s.Shoal)) {
				return nil
			}
			if v.step {
				v.step = false
				if err := conf.Step(); err != nil {
					return err
				}
			}
			v.draw(screen, s)
		case <-ticker.C:
			if !v.pause {
				if err := conf.Step(); err != nil {
					return err
				}
			}
			v.draw(screen, s)
		}
	}
}

// pump forwards the events of screen until the screen is finalized or done is closed.
// The second channel is closed when it stops.
func pump(screen tcell.Screen, done <-chan struct{}) (<-chan tcell.Event, <-chan struct{}) {
	events := make(chan tcell.Event, 16)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events, stopped
}

// viewer holds the interactive state of the display.
type viewer struct {
	pause      bool
	forcePause bool
	step       bool
	focal      int // index of the fish whose neighbors are highlighted, or -1
}

// handle updates the viewer state for an event.
// It returns false if the viewer should quit.
func (v *viewer) handle(ev tcell.Event, n int) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			if v.pause {
				v.step = true
			}
		case tcell.KeyTab:
			v.focal = (v.focal+2)%(n+1) - 1
		case tcell.KeyBacktab:
			v.focal = (n+v.focal+1)%(n+1) - 1
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				if !v.forcePause {
					v.pause = !v.pause
				}
			}
		}
	}
	return true
}

// arrows are the glyphs of the eight compass directions, counter-clockwise from east.
var arrows = []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// glyph returns the arrow closest to direction u.
func glyph(u shoal.Vec2) rune {
	i := int(math.Round(u.Angle() / (math.Pi / 4)))
	return arrows[(i+8)%8]
}

// cell returns the screen cell of position p in a w by h area,
// with y pointing up.
func cell(sp *shoal.Space, p shoal.Vec2, w, h int) (col, row int) {
	col = int(p.X / sp.Width * float64(w))
	row = h - 1 - int(p.Y/sp.Height*float64(h))
	return min(max(col, 0), w-1), min(max(row, 0), h-1)
}

// draw draws all fish and a status line.
func (v *viewer) draw(screen tcell.Screen, s *shoal.Simulation) {
	screen.Clear()
	w, h := screen.Size()
	h-- // status line
	if w <= 0 || h <= 0 {
		return
	}

	near := make(map[int]bool)
	if v.focal >= 0 && v.focal < len(s.Shoal) {
		f := s.Shoal[v.focal]
		for _, n := range s.Space.Neighbors(f.Pos, f.Vision, false) {
			near[n.ID] = true
		}
	}
	for i, f := range s.Shoal {
		c := palette.Heading(f.Vel)
		switch {
		case i == v.focal:
			c = palette.Focal
		case near[f.ID]:
			c = palette.Neighbor
		}
		r, g, b := c.RGB255()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		col, row := cell(s.Space, f.Pos, w, h)
		screen.SetContent(col, row, glyph(f.Vel), nil, style)
	}

	status := fmt.Sprintf("step %d", s.Steps())
	if r, err := stats.Of(s); err == nil {
		status += fmt.Sprintf("  polarization %.3f  nnd %.2f  area %.1f  centroid %.2f",
			r.Polarization, r.NND, r.Area, r.Centroid)
	}
	if v.pause {
		status += "  [paused]"
	}
	for i, c := range status {
		if i >= w {
			break
		}
		screen.SetContent(i, h, c, nil, tcell.StyleDefault.Reverse(true))
	}
	screen.Show()
}
