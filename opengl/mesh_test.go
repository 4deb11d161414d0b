package opengl

import (
	"math"
	"math/rand"
	"testing"

	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/palette"
)

func TestMesh(t *testing.T) {
	p := shoal.DefaultParams
	p.Population = 10
	s, err := shoal.New(p, rand.New(rand.NewSource(12)))
	if err != nil {
		t.Fatal(err)
	}

	buf := mesh(nil, s, -1)
	if len(buf) != 3*vertexSize*p.Population {
		t.Fatalf("Expected %d floats, got %d", 3*vertexSize*p.Population, len(buf))
	}
	for i, f := range s.Shoal {
		tip := buf[3*vertexSize*i:]
		want := f.Pos.Add(f.Vel.Scale(BodyLength / 2))
		if math.Abs(float64(tip[0])-want.X) > 1e-5 || math.Abs(float64(tip[1])-want.Y) > 1e-5 {
			t.Errorf("Fish %d: expected tip at %v, got (%v, %v)", i, want, tip[0], tip[1])
		}
	}

	buf = mesh(buf, s, 3)
	if r, g, b := buf[3*vertexSize*3+2], buf[3*vertexSize*3+3], buf[3*vertexSize*3+4]; r != float32(palette.Focal.R) || g != float32(palette.Focal.G) || b != float32(palette.Focal.B) {
		t.Errorf("Expected focal fish to be highlighted, got color (%v, %v, %v)", r, g, b)
	}
}
