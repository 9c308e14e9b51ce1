package geom

import "math"

// paramSlack absorbs float error when deciding whether a line parameter
// falls inside [0,1]; without it, intersections exactly at a segment
// endpoint are lost to the last ulp of the quadratic solve.
const paramSlack = 1e-9

// CircleCircle returns the intersection points of two circles given by
// center and radius. Returns 0, 1 (tangency) or 2 points.
//
// The result set is symmetric in its arguments: swapping the circles
// returns the same points, possibly in the other order.
func CircleCircle(c0 Pt, r0 float64, c1 Pt, r1 float64) []Pt {
	d := c0.Dist(c1)
	if d < Eps {
		// Concentric (or identical) circles: no discrete intersections.
		return nil
	}
	if d > r0+r1+Eps || d < math.Abs(r0-r1)-Eps {
		return nil
	}

	// Distance from c0 along the center line to the chord midpoint.
	a := (r0*r0 - r1*r1 + d*d) / (2 * d)
	h2 := r0*r0 - a*a
	if h2 < 0 {
		if h2 < -Eps {
			return nil
		}
		h2 = 0
	}
	h := math.Sqrt(h2)

	dir := c1.Sub(c0).Scale(1 / d)
	mid := c0.Add(dir.Scale(a))
	if h < Eps {
		return []Pt{mid}
	}
	perp := Pt{-dir.Y, dir.X}
	return []Pt{
		mid.Add(perp.Scale(h)),
		mid.Sub(perp.Scale(h)),
	}
}

// CircleLine returns the intersections of a circle with the infinite line
// through a and b.
func CircleLine(center Pt, r float64, a, b Pt) []Pt {
	pts, _ := circleLineParams(center, r, a, b)
	return pts
}

// CircleSegment returns the intersections of a circle with the closed
// segment from a to b.
func CircleSegment(center Pt, r float64, a, b Pt) []Pt {
	pts, ts := circleLineParams(center, r, a, b)
	var out []Pt
	for i, p := range pts {
		if ts[i] >= -paramSlack && ts[i] <= 1+paramSlack {
			out = append(out, p)
		}
	}
	return out
}

// circleLineParams solves the circle/line intersection and returns both
// the points and their line parameters (0 at a, 1 at b).
func circleLineParams(center Pt, r float64, a, b Pt) ([]Pt, []float64) {
	d := b.Sub(a)
	len2 := d.Dot(d)
	if len2 < Eps*Eps {
		return nil, nil
	}

	// Quadratic in t for |a + t*d - center|^2 = r^2.
	f := a.Sub(center)
	qa := len2
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - r*r

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		if disc < -Eps {
			return nil, nil
		}
		disc = 0
	}
	sq := math.Sqrt(disc)

	t0 := (-qb - sq) / (2 * qa)
	t1 := (-qb + sq) / (2 * qa)
	if t1-t0 < Eps {
		// Tangent: a single touching point.
		return []Pt{a.Add(d.Scale(t0))}, []float64{t0}
	}
	return []Pt{a.Add(d.Scale(t0)), a.Add(d.Scale(t1))}, []float64{t0, t1}
}

// SegmentSegment returns the intersection of two closed segments, or nil.
// Parallel and collinear segments yield no intersection point.
func SegmentSegment(a, b, c, d Pt) []Pt {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if math.Abs(denom) < Eps {
		return nil
	}
	ac := c.Sub(a)
	t := ac.Cross(s) / denom
	u := ac.Cross(r) / denom
	if t < -paramSlack || t > 1+paramSlack || u < -paramSlack || u > 1+paramSlack {
		return nil
	}
	return []Pt{a.Add(r.Scale(t))}
}
