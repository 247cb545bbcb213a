// Package math provides the small vector and matrix types shared by the
// simulation and the presenter.
package math

import "math"

// Vec2 is a point or offset in logical pixels.
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}.
func V2(x, y float64) Vec2 { return Vec2{x, y} }

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// Lerp returns the point a fraction t of the way from v to other. t is not
// clamped.
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return Vec2{v.X + (other.X-v.X)*t, v.Y + (other.Y-v.Y)*t}
}

// OnEllipse returns the point at angle a on the axis-aligned ellipse centred
// at c with radii r.X and r.Y.
func OnEllipse(c, r Vec2, a float64) Vec2 {
	return Vec2{c.X + r.X*math.Cos(a), c.Y + r.Y*math.Sin(a)}
}
