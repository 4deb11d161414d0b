package opengl

import (
	shoal "github.com/sowasser/fish-shoaling-model"
	"github.com/sowasser/fish-shoaling-model/palette"
)

// BodyLength is the length of a fish on screen, in space units.
const BodyLength = 1.0

// vertexSize is the number of float32 per vertex: position (x, y) and color (r, g, b).
const vertexSize = 5

// mesh appends to buf one triangle per fish, pointing in its direction of motion.
// If focal is a valid fish index, that fish and its neighbors are highlighted.
func mesh(buf []float32, s *shoal.Simulation, focal int) []float32 {
	buf = buf[:0]
	near := make(map[int]bool)
	if focal >= 0 && focal < len(s.Shoal) {
		f := s.Shoal[focal]
		for _, n := range s.Space.Neighbors(f.Pos, f.Vision, false) {
			near[n.ID] = true
		}
	}
	for i, f := range s.Shoal {
		c := palette.Heading(f.Vel)
		switch {
		case i == focal:
			c = palette.Focal
		case near[f.ID]:
			c = palette.Neighbor
		}
		u, ok := f.Vel.Unit()
		if !ok {
			u = shoal.Vec2{X: 1}
		}
		n := shoal.Vec2{X: -u.Y, Y: u.X}
		tip := f.Pos.Add(u.Scale(BodyLength / 2))
		back := f.Pos.Sub(u.Scale(BodyLength / 2))
		for _, p := range []shoal.Vec2{tip, back.Add(n.Scale(BodyLength / 4)), back.Sub(n.Scale(BodyLength / 4))} {
			buf = append(buf, float32(p.X), float32(p.Y), float32(c.R), float32(c.G), float32(c.B))
		}
	}
	return buf
}
