package shoal

import "math"

// A Vec2 is a simple 2D vector.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns u+v.
func (u Vec2) Add(v Vec2) Vec2 { return Vec2{u.X + v.X, u.Y + v.Y} }

// Sub returns u-v.
func (u Vec2) Sub(v Vec2) Vec2 { return Vec2{u.X - v.X, u.Y - v.Y} }

// Scale returns k*u.
func (u Vec2) Scale(k float64) Vec2 { return Vec2{k * u.X, k * u.Y} }

// Norm returns the Euclidean norm of u.
func (u Vec2) Norm() float64 { return math.Hypot(u.X, u.Y) }

// Angle returns the direction of u in radians, between -pi and pi.
func (u Vec2) Angle() float64 { return math.Atan2(u.Y, u.X) }

// Unit returns u scaled to unit length.
// The second result is false if the norm of u is too small to divide by,
// in which case u is returned unchanged.
func (u Vec2) Unit() (Vec2, bool) {
	n := u.Norm()
	if n < minNorm || math.IsNaN(n) || math.IsInf(n, 0) {
		return u, false
	}
	return Vec2{u.X / n, u.Y / n}, true
}

// minNorm is the smallest norm a vector can have and still be normalized.
const minNorm = 1e-12

// FromAngle returns the unit vector pointing in direction θ.
func FromAngle(θ float64) Vec2 {
	sin, cos := math.Sincos(θ)
	return Vec2{cos, sin}
}
