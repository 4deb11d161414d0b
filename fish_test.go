package shoal

import (
	"math"
	"math/rand"
	"testing"
)

func newTestFish(id int, pos, vel Vec2) *Fish {
	return &Fish{
		ID:    id,
		State: State{Pos: pos, Vel: vel},
		Parameters: Parameters{
			Speed:          1,
			Vision:         10,
			Separation:     2,
			CohereFactor:   0.025,
			SeparateFactor: 0.25,
			MatchFactor:    0.04,
		},
	}
}

func near(u, v Vec2, tol float64) bool {
	return math.Abs(u.X-v.X) <= tol && math.Abs(u.Y-v.Y) <= tol
}

func TestRulesWithoutNeighbors(t *testing.T) {
	s := NewSpace(50, 50)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		f := newTestFish(0, Vec2{rng.Float64() * 50, rng.Float64() * 50}, FromAngle(rng.Float64()*2*math.Pi))
		f.Separation = rng.Float64() * 10
		if v := f.Cohere(s, nil); v != (Vec2{}) {
			t.Fatalf("Expected zero cohesion, got %v", v)
		}
		if v := f.Separate(s, nil); v != (Vec2{}) {
			t.Fatalf("Expected zero separation, got %v", v)
		}
		if v := f.Match(nil); v != (Vec2{}) {
			t.Fatalf("Expected zero alignment, got %v", v)
		}
	}
}

func TestCohere(t *testing.T) {
	s := NewSpace(50, 50)
	f := newTestFish(0, Vec2{1, 25}, Vec2{1, 0})
	ns := []*Fish{
		newTestFish(1, Vec2{49, 25}, Vec2{1, 0}), // 2 to the left, across the boundary
		newTestFish(2, Vec2{1, 29}, Vec2{1, 0}),
	}
	want := Vec2{-1, 2}
	if got := f.Cohere(s, ns); !near(got, want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSeparate(t *testing.T) {
	s := NewSpace(50, 50)
	f := newTestFish(0, Vec2{10, 10}, Vec2{1, 0})
	ns := []*Fish{
		newTestFish(1, Vec2{11, 10}, Vec2{1, 0}),   // too close
		newTestFish(2, Vec2{10, 8.5}, Vec2{1, 0}),  // too close
		newTestFish(3, Vec2{12, 10}, Vec2{1, 0}),   // exactly at separation distance
		newTestFish(4, Vec2{15, 15}, Vec2{1, 0}),   // far
	}
	want := Vec2{-1, 1.5}
	if got := f.Separate(s, ns); !near(got, want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestMatch(t *testing.T) {
	f := newTestFish(0, Vec2{10, 10}, Vec2{1, 0})
	ns := []*Fish{
		newTestFish(1, Vec2{11, 10}, Vec2{0, 1}),
		newTestFish(2, Vec2{12, 10}, Vec2{0, -1}),
		newTestFish(3, Vec2{13, 10}, Vec2{-1, 0}),
		newTestFish(4, Vec2{14, 10}, Vec2{-1, 0}),
	}
	want := Vec2{-0.5, 0}
	if got := f.Match(ns); !near(got, want, 1e-12) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSteerKeepsUnitHeadingWithoutNeighbors(t *testing.T) {
	s := NewSpace(50, 50)
	for _, θ := range []float64{0, 0.3, math.Pi / 2, -2, math.Pi} {
		f := newTestFish(0, Vec2{25, 25}, FromAngle(θ))
		got := f.Steer(s, nil)
		if !near(got, f.Vel, 1e-12) {
			t.Errorf("Expected heading %v unchanged, got %v", f.Vel, got)
		}
	}
}

func TestSteerWeights(t *testing.T) {
	s := NewSpace(50, 50)
	f := newTestFish(0, Vec2{10, 10}, Vec2{1, 0})
	f.CohereFactor, f.SeparateFactor, f.MatchFactor = 0.3, 0.7, 1.1
	ns := []*Fish{
		newTestFish(1, Vec2{11, 10}, Vec2{0, 1}),  // within separation
		newTestFish(2, Vec2{10, 14}, Vec2{-1, 0}), // beyond separation
	}

	// cohere (0.5, 2), separate (-1, 0), match (-0.5, 0.5)
	acc := Vec2{0.3*0.5 + 0.7*-1 + 1.1*-0.5, 0.3*2 + 0.7*0 + 1.1*0.5}
	v := f.Vel.Add(acc.Scale(0.5))
	want := v.Scale(1 / v.Norm())

	if got := f.Steer(s, ns); !near(got, want, 1e-12) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSteerIsUnit(t *testing.T) {
	s := NewSpace(50, 50)
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		f := newTestFish(0, Vec2{25, 25}, FromAngle(rng.Float64()*2*math.Pi))
		var ns []*Fish
		for j := 0; j < 1+rng.Intn(10); j++ {
			p := Vec2{25 + 8*(rng.Float64()-0.5), 25 + 8*(rng.Float64()-0.5)}
			ns = append(ns, newTestFish(j+1, p, FromAngle(rng.Float64()*2*math.Pi)))
		}
		v := f.Steer(s, ns)
		if math.Abs(v.Norm()-1) > 1e-9 {
			t.Fatalf("Expected unit heading, got %v with norm %v", v, v.Norm())
		}
	}
}

func TestSteerOrderIndependent(t *testing.T) {
	s := NewSpace(50, 50)
	rng := rand.New(rand.NewSource(5))
	f := newTestFish(0, Vec2{25, 25}, Vec2{0, 1})
	var ns []*Fish
	for j := 0; j < 8; j++ {
		p := Vec2{25 + 10*(rng.Float64()-0.5), 25 + 10*(rng.Float64()-0.5)}
		ns = append(ns, newTestFish(j+1, p, FromAngle(rng.Float64()*2*math.Pi)))
	}
	want := f.Steer(s, ns)
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(ns), func(i, j int) { ns[i], ns[j] = ns[j], ns[i] })
		if got := f.Steer(s, ns); !near(got, want, 1e-12) {
			t.Fatalf("Expected %v for any neighbor order, got %v", want, got)
		}
	}
}

func TestSteerZeroNormKeepsHeading(t *testing.T) {
	s := NewSpace(50, 50)
	f := newTestFish(0, Vec2{25, 25}, Vec2{1, 0})
	f.CohereFactor, f.SeparateFactor, f.MatchFactor = 0, 0, 2
	ns := []*Fish{newTestFish(1, Vec2{26, 25}, Vec2{-1, 0})}

	got := f.Steer(s, ns)
	if !near(got, Vec2{1, 0}, 0) {
		t.Errorf("Expected previous heading (1,0) to be kept, got %v", got)
	}

	f.Vel = Vec2{}
	if got := f.Steer(s, nil); math.Abs(got.Norm()-1) > 1e-12 {
		t.Errorf("Expected a unit fallback heading for a zero velocity, got %v", got)
	}
}

func TestStepMovesBySpeed(t *testing.T) {
	s := NewSpace(20, 20)
	f := newTestFish(0, Vec2{19.5, 10}, Vec2{1, 0})
	f.Speed = 1.5
	s.Place(f, f.Pos)
	f.Step(s)
	want := Vec2{1, 10}
	if !near(f.Pos, want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, f.Pos)
	}
}
