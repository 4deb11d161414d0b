// Package shoal runs agent-based simulations of shoaling fish.
//
// A fixed number of fish move in a 2D world with periodic boundaries.
// Each fish follows the three boid rules of Reynolds (1987):
// it is attracted to the neighbors it sees (cohesion), it avoids the
// ones that are too close (separation) and it aligns with them (alignment).
// Neighbors are all fish within a fixed vision radius.
package shoal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrConfig is returned when simulation parameters are invalid.
var ErrConfig = errors.New("shoal: invalid configuration")

// Params contains all the parameters of a simulation.
type Params struct {
	Population int     // number of fish
	Width      float64 // size of the space along x
	Height     float64 // size of the space along y

	Speed      float64 // distance moved per step
	Vision     float64 // radius in which neighbors are perceived
	Separation float64 // desired minimum distance between fish

	Cohere   float64 // weight of cohesion
	Separate float64 // weight of separation
	Match    float64 // weight of alignment
}

// DefaultParams are the default parameters.
var DefaultParams = Params{
	Population: 100,
	Width:      50,
	Height:     50,
	Speed:      2,
	Vision:     10,
	Separation: 2,
	Cohere:     0.025,
	Separate:   0.25,
	Match:      0.04,
}

// Validate checks that the parameters describe a valid simulation.
// The returned error wraps ErrConfig.
func (p Params) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"width", p.Width},
		{"height", p.Height},
		{"speed", p.Speed},
		{"vision", p.Vision},
		{"separation", p.Separation},
		{"cohere", p.Cohere},
		{"separate", p.Separate},
		{"match", p.Match},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrConfig, v.name, v.val)
		}
	}
	switch {
	case p.Population <= 0:
		return fmt.Errorf("%w: population must be positive, got %d", ErrConfig, p.Population)
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: domain must have positive extents, got %vx%v", ErrConfig, p.Width, p.Height)
	case p.Speed < 0:
		return fmt.Errorf("%w: speed must not be negative, got %v", ErrConfig, p.Speed)
	case p.Speed > p.Width || p.Speed > p.Height:
		return fmt.Errorf("%w: speed %v exceeds domain extents %vx%v", ErrConfig, p.Speed, p.Width, p.Height)
	case p.Vision < 0:
		return fmt.Errorf("%w: vision must not be negative, got %v", ErrConfig, p.Vision)
	case p.Separation < 0:
		return fmt.Errorf("%w: separation must not be negative, got %v", ErrConfig, p.Separation)
	}
	return nil
}

// A Simulation contains all the state and parameters of a simulation.
type Simulation struct {
	Params Params
	Space  *Space
	Shoal  []*Fish

	rng   *rand.Rand
	steps int
}

// New creates a simulation with fish placed uniformly at random in the space
// and heading in uniformly random directions. All randomness, including the
// order in which fish are updated at every step, is drawn from rng.
func New(p Params, rng *rand.Rand) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfig)
	}
	s := &Simulation{
		Params: p,
		Space:  NewSpace(p.Width, p.Height),
		Shoal:  make([]*Fish, p.Population),
		rng:    rng,
	}
	for i := range s.Shoal {
		f := &Fish{
			ID: i,
			Parameters: Parameters{
				Speed:          p.Speed,
				Vision:         p.Vision,
				Separation:     p.Separation,
				CohereFactor:   p.Cohere,
				SeparateFactor: p.Separate,
				MatchFactor:    p.Match,
			},
		}
		pos := Vec2{X: rng.Float64() * p.Width, Y: rng.Float64() * p.Height}
		f.Vel = FromAngle(2*math.Pi*rng.Float64() - math.Pi)
		s.Space.Place(f, pos)
		s.Shoal[i] = f
	}
	return s, nil
}

// Step runs a single simulation step.
// Every fish is updated exactly once, in a random order. Fish are updated
// in place, so a fish sees the new state of the neighbors updated before it.
func (s *Simulation) Step() {
	for _, i := range s.rng.Perm(len(s.Shoal)) {
		s.Shoal[i].Step(s.Space)
	}
	s.steps++
}

// Steps returns the number of steps run so far.
func (s *Simulation) Steps() int {
	return s.steps
}

// Positions returns a copy of the positions of all fish, ordered by ID.
func (s *Simulation) Positions() []Vec2 {
	p := make([]Vec2, len(s.Shoal))
	for i, f := range s.Shoal {
		p[i] = f.Pos
	}
	return p
}

// Velocities returns a copy of the velocities of all fish, ordered by ID.
func (s *Simulation) Velocities() []Vec2 {
	v := make([]Vec2, len(s.Shoal))
	for i, f := range s.Shoal {
		v[i] = f.Vel
	}
	return v
}

// States returns a copy of the states of all fish, ordered by ID.
func (s *Simulation) States() []State {
	st := make([]State, len(s.Shoal))
	for i, f := range s.Shoal {
		st[i] = f.State
	}
	return st
}

// SetStates overwrites the states of the fish with st, ordered by ID.
// Positions are wrapped into the space. It is used to replay recorded runs.
func (s *Simulation) SetStates(st []State) error {
	if len(st) != len(s.Shoal) {
		return fmt.Errorf("shoal: got %d states for %d fish", len(st), len(s.Shoal))
	}
	for i, f := range s.Shoal {
		f.Vel = st[i].Vel
		s.Space.Move(f, st[i].Pos)
	}
	return nil
}
