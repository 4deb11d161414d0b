package shoal

import "math"

// A Space is a continuous rectangle with periodic boundary conditions
// in both directions (a torus). It keeps track of the fish placed in it
// and answers proximity queries.
type Space struct {
	Width  float64
	Height float64

	fish []*Fish
}

// NewSpace returns an empty space of the given size.
func NewSpace(width, height float64) *Space {
	return &Space{Width: width, Height: height}
}

// Place adds f to the space at position pos, wrapped into range.
// A fish that is already in the space is only moved.
func (s *Space) Place(f *Fish, pos Vec2) {
	f.Pos = s.Wrap(pos)
	for _, g := range s.fish {
		if g == f {
			return
		}
	}
	s.fish = append(s.fish, f)
}

// Move moves f to pos, wrapped into range.
func (s *Space) Move(f *Fish, pos Vec2) {
	f.Pos = s.Wrap(pos)
}

// Fish returns the fish placed in the space, in placement order.
// The returned slice must not be modified.
func (s *Space) Fish() []*Fish {
	return s.fish
}

// Wrap returns the canonical form of pos in [0, Width) x [0, Height).
func (s *Space) Wrap(pos Vec2) Vec2 {
	return Vec2{X: wrap(pos.X, s.Width), Y: wrap(pos.Y, s.Height)}
}

// Heading returns the shortest vector pointing from a to b,
// choosing on each axis between the direct and the wrapped-around offset.
func (s *Space) Heading(a, b Vec2) Vec2 {
	return Vec2{X: fold(b.X-a.X, s.Width), Y: fold(b.Y-a.Y, s.Height)}
}

// Dist returns the toroidal distance between a and b.
func (s *Space) Dist(a, b Vec2) float64 {
	return s.Heading(a, b).Norm()
}

// MaxDist returns the largest possible distance between two points,
// i.e. half the diagonal of the space.
func (s *Space) MaxDist() float64 {
	return math.Hypot(s.Width/2, s.Height/2)
}

// Neighbors returns all fish whose toroidal distance to pos is at most radius.
// Fish located exactly at pos are only returned if includeCenter is true.
// The order of the result is unspecified.
func (s *Space) Neighbors(pos Vec2, radius float64, includeCenter bool) []*Fish {
	var out []*Fish
	for _, f := range s.fish {
		d := s.Dist(pos, f.Pos)
		if d > radius || (d == 0 && !includeCenter) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// wrap maps x into [0, size).
func wrap(x, size float64) float64 {
	x = math.Mod(x, size)
	if x < 0 {
		x += size
	}
	// x+size can round up to size for tiny negative x
	if x >= size {
		x = 0
	}
	return x
}

// fold maps an offset into [-size/2, size/2].
func fold(x, size float64) float64 {
	x = math.Mod(x, size)
	if 2*x <= -size {
		x += size
	} else if 2*x > size {
		x -= size
	}
	return x
}
