package shoal

import (
	"math"
	"math/rand"
	"testing"
)

func TestWrap(t *testing.T) {
	s := NewSpace(100, 50)
	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"Inside", Vec2{10, 20}, Vec2{10, 20}},
		{"Past max", Vec2{101, 51}, Vec2{1, 1}},
		{"Below min", Vec2{-1, -1}, Vec2{99, 49}},
		{"On max", Vec2{100, 50}, Vec2{0, 0}},
		{"Far away", Vec2{-250, 175}, Vec2{50, 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Wrap(tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMoveStaysInside(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewSpace(50, 30)
	f := &Fish{}
	s.Place(f, Vec2{25, 15})
	for i := 0; i < 10000; i++ {
		d := Vec2{X: (rng.Float64() - 0.5) * 400, Y: (rng.Float64() - 0.5) * 400}
		if i%100 == 0 {
			// tiny negative offsets used to round to the upper bound
			d = Vec2{X: -f.Pos.X - 1e-17, Y: -f.Pos.Y - 1e-17}
		}
		s.Move(f, f.Pos.Add(d))
		if f.Pos.X < 0 || f.Pos.X >= s.Width || f.Pos.Y < 0 || f.Pos.Y >= s.Height {
			t.Fatalf("Position %v out of [0,%v)x[0,%v) after move by %v", f.Pos, s.Width, s.Height, d)
		}
	}
}

func TestHeading(t *testing.T) {
	s := NewSpace(50, 50)
	tests := []struct {
		name string
		a, b Vec2
		want Vec2
	}{
		{"Direct", Vec2{10, 10}, Vec2{12, 7}, Vec2{2, -3}},
		{"Wrap x", Vec2{1, 1}, Vec2{49, 1}, Vec2{-2, 0}},
		{"Wrap y", Vec2{1, 49}, Vec2{1, 2}, Vec2{0, 3}},
		{"Wrap both", Vec2{48, 48}, Vec2{1, 1}, Vec2{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Heading(tt.a, tt.b)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDistSymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, size := range [][2]float64{{50, 50}, {100, 20}, {7, 3}} {
		s := NewSpace(size[0], size[1])
		max := s.MaxDist()
		for i := 0; i < 5000; i++ {
			a := Vec2{rng.Float64() * s.Width, rng.Float64() * s.Height}
			b := Vec2{rng.Float64() * s.Width, rng.Float64() * s.Height}
			if i%50 == 0 {
				// exactly half the space apart on both axes
				b = s.Wrap(Vec2{a.X + s.Width/2, a.Y + s.Height/2})
			}
			dab, dba := s.Dist(a, b), s.Dist(b, a)
			if math.Abs(dab-dba) > 1e-9 {
				t.Fatalf("Dist(%v, %v) = %v but Dist(%v, %v) = %v", a, b, dab, b, a, dba)
			}
			if dab > max+1e-9 {
				t.Fatalf("Dist(%v, %v) = %v exceeds half diagonal %v", a, b, dab, max)
			}
		}
	}
}

func TestNeighbors(t *testing.T) {
	s := NewSpace(100, 100)
	a, b, c := &Fish{ID: 0}, &Fish{ID: 1}, &Fish{ID: 2}
	s.Place(a, Vec2{50, 50})
	s.Place(b, Vec2{51, 50})
	s.Place(c, Vec2{99.5, 50})

	tests := []struct {
		name          string
		pos           Vec2
		radius        float64
		includeCenter bool
		want          []int
	}{
		{"Close neighbor", Vec2{50, 50}, 2, false, []int{1}},
		{"Too small radius", Vec2{50, 50}, 0.5, false, nil},
		{"Include center", Vec2{50, 50}, 2, true, []int{0, 1}},
		{"Radius is inclusive", Vec2{50, 50}, 1, false, []int{1}},
		{"Across boundary", Vec2{0.5, 50}, 1.5, false, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Neighbors(tt.pos, tt.radius, tt.includeCenter)
			ids := make(map[int]bool)
			for _, f := range got {
				ids[f.ID] = true
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("Expected neighbors %v, got %d fish", tt.want, len(got))
			}
			for _, id := range tt.want {
				if !ids[id] {
					t.Errorf("Expected fish %d among neighbors", id)
				}
			}
		})
	}
}

func TestPlaceTwice(t *testing.T) {
	s := NewSpace(100, 100)
	a, b := &Fish{ID: 0}, &Fish{ID: 1}
	s.Place(a, Vec2{50, 50})
	s.Place(b, Vec2{10, 10})
	s.Place(a, Vec2{11, 10})

	if n := len(s.Fish()); n != 2 {
		t.Fatalf("Expected 2 fish in the space, got %d", n)
	}
	if want := (Vec2{11, 10}); a.Pos != want {
		t.Errorf("Expected fish moved to %v, got %v", want, a.Pos)
	}
	if got := s.Neighbors(Vec2{10, 10}, 2, false); len(got) != 1 || got[0] != a {
		t.Errorf("Expected fish 0 to be the only neighbor, got %d fish", len(got))
	}
}
