package geom

import "math"

// Eps is the degeneracy epsilon: quantities smaller than this are treated
// as exactly zero (zero-radius circles, parallel lines, tangency).
const Eps = 1e-9

// Tol is the coincidence tolerance in world units: two points within Tol
// of each other are considered the same point.
const Tol = 1e-3

// Pt is a 2D point (or vector; the distinction is contextual).
type Pt struct {
	X, Y float64
}

// Sub returns the vector p - q.
func (p Pt) Sub(q Pt) Pt {
	return Pt{p.X - q.X, p.Y - q.Y}
}

// Add returns p + q.
func (p Pt) Add(q Pt) Pt {
	return Pt{p.X + q.X, p.Y + q.Y}
}

// Scale returns p scaled by k.
func (p Pt) Scale(k float64) Pt {
	return Pt{p.X * k, p.Y * k}
}

// Dot returns the dot product p · q.
func (p Pt) Dot(q Pt) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (the z component of p × q).
func (p Pt) Cross(q Pt) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Dist returns the Euclidean distance between p and q.
func (p Pt) Dist(q Pt) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Norm returns the Euclidean length of p treated as a vector.
func (p Pt) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Coincident reports whether p and q are the same point within Tol.
func Coincident(p, q Pt) bool {
	return p.Dist(q) < Tol
}
