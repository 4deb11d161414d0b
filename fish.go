package shoal

// State contains the kinematic state of a fish.
type State struct {
	Pos Vec2 // position in the space
	Vel Vec2 // heading as a unit vector
}

// Parameters contains the behavioral parameters of a fish.
type Parameters struct {
	Speed      float64 // distance moved per step
	Vision     float64 // radius in which neighbors are perceived
	Separation float64 // desired minimum distance to any neighbor

	CohereFactor   float64 // weight of attraction to the local centroid
	SeparateFactor float64 // weight of avoidance of close neighbors
	MatchFactor    float64 // weight of alignment with neighbors
}

// A Fish is a boid: it perceives the neighbors within its vision radius
// and steers by cohering with, separating from, and aligning with them.
type Fish struct {
	ID int
	State
	Parameters
}

// Cohere returns the average heading from f to its neighbors,
// i.e. a vector pointing toward their local centroid.
func (f *Fish) Cohere(s *Space, neighbors []*Fish) Vec2 {
	var v Vec2
	if len(neighbors) == 0 {
		return v
	}
	for _, n := range neighbors {
		v = v.Add(s.Heading(f.Pos, n.Pos))
	}
	return v.Scale(1 / float64(len(neighbors)))
}

// Separate returns a vector pointing away from the neighbors
// closer than the separation distance.
func (f *Fish) Separate(s *Space, neighbors []*Fish) Vec2 {
	var v Vec2
	for _, n := range neighbors {
		h := s.Heading(f.Pos, n.Pos)
		if h.Norm() < f.Separation {
			v = v.Sub(h)
		}
	}
	return v
}

// Match returns the average velocity of the neighbors.
func (f *Fish) Match(neighbors []*Fish) Vec2 {
	var v Vec2
	if len(neighbors) == 0 {
		return v
	}
	for _, n := range neighbors {
		v = v.Add(n.Vel)
	}
	return v.Scale(1 / float64(len(neighbors)))
}

// Steer combines the three rules with the current heading and returns
// the new heading as a unit vector. If the combination cancels out,
// the current heading is kept.
func (f *Fish) Steer(s *Space, neighbors []*Fish) Vec2 {
	acc := f.Cohere(s, neighbors).Scale(f.CohereFactor).
		Add(f.Separate(s, neighbors).Scale(f.SeparateFactor)).
		Add(f.Match(neighbors).Scale(f.MatchFactor))
	if u, ok := f.Vel.Add(acc.Scale(0.5)).Unit(); ok {
		return u
	}
	if u, ok := f.Vel.Unit(); ok {
		return u
	}
	return Vec2{X: 1}
}

// Step updates the heading of f based on its current neighborhood
// and moves it forward by its speed.
func (f *Fish) Step(s *Space) {
	neighbors := s.Neighbors(f.Pos, f.Vision, false)
	f.Vel = f.Steer(s, neighbors)
	s.Move(f, f.Pos.Add(f.Vel.Scale(f.Speed)))
}
