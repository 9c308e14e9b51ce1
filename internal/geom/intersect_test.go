package geom

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortPts(pts []Pt) []Pt {
	out := append([]Pt(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

func TestCircleCircle_TwoPoints(t *testing.T) {
	// Unit circles centered at (0,0) and (1,0): the classic equilateral
	// triangle setup. Intersections at (0.5, ±√3/2).
	pts := CircleCircle(Pt{0, 0}, 1, Pt{1, 0}, 1)
	require.Len(t, pts, 2)

	pts = sortPts(pts)
	assert.InDelta(t, 0.5, pts[0].X, Tol)
	assert.InDelta(t, -math.Sqrt(3)/2, pts[0].Y, Tol)
	assert.InDelta(t, 0.5, pts[1].X, Tol)
	assert.InDelta(t, math.Sqrt(3)/2, pts[1].Y, Tol)
}

func TestCircleCircle_Symmetric(t *testing.T) {
	cases := []struct {
		name   string
		c0, c1 Pt
		r0, r1 float64
	}{
		{"unit pair", Pt{0, 0}, Pt{1, 0}, 1, 1},
		{"offset", Pt{-2, 1}, Pt{0.5, -0.25}, 3, 1.5},
		{"tangent", Pt{0, 0}, Pt{2, 0}, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fwd := sortPts(CircleCircle(tc.c0, tc.r0, tc.c1, tc.r1))
			rev := sortPts(CircleCircle(tc.c1, tc.r1, tc.c0, tc.r0))
			require.Equal(t, len(fwd), len(rev))
			for i := range fwd {
				assert.InDelta(t, fwd[i].X, rev[i].X, Eps*10)
				assert.InDelta(t, fwd[i].Y, rev[i].Y, Eps*10)
			}
		})
	}
}

func TestCircleCircle_NoIntersection(t *testing.T) {
	assert.Empty(t, CircleCircle(Pt{0, 0}, 1, Pt{5, 0}, 1), "disjoint")
	assert.Empty(t, CircleCircle(Pt{0, 0}, 5, Pt{0.5, 0}, 1), "contained")
	assert.Empty(t, CircleCircle(Pt{0, 0}, 1, Pt{0, 0}, 1), "concentric")
}

func TestCircleCircle_Tangent(t *testing.T) {
	pts := CircleCircle(Pt{0, 0}, 1, Pt{2, 0}, 1)
	require.Len(t, pts, 1)
	assert.InDelta(t, 1, pts[0].X, Tol)
	assert.InDelta(t, 0, pts[0].Y, Tol)
}

func TestCircleSegment(t *testing.T) {
	// Unit circle at origin, horizontal segment crossing it fully.
	pts := CircleSegment(Pt{0, 0}, 1, Pt{-2, 0}, Pt{2, 0})
	require.Len(t, pts, 2)
	pts = sortPts(pts)
	assert.InDelta(t, -1, pts[0].X, Tol)
	assert.InDelta(t, 1, pts[1].X, Tol)

	// Segment stopping inside the circle only crosses once.
	pts = CircleSegment(Pt{0, 0}, 1, Pt{-2, 0}, Pt{0, 0})
	require.Len(t, pts, 1)
	assert.InDelta(t, -1, pts[0].X, Tol)

	// Segment entirely inside: no crossing.
	assert.Empty(t, CircleSegment(Pt{0, 0}, 1, Pt{-0.5, 0}, Pt{0.5, 0}))
}

func TestCircleSegment_EndpointOnCircle(t *testing.T) {
	// Circle centered at A through B; the segment AB meets it exactly at B.
	pts := CircleSegment(Pt{0, 0}, 1, Pt{0, 0}, Pt{1, 0})
	require.Len(t, pts, 1)
	assert.InDelta(t, 1, pts[0].X, Tol)
	assert.InDelta(t, 0, pts[0].Y, Tol)
}

func TestCircleLine_ExtendsPastSegment(t *testing.T) {
	// The finite segment misses; its infinite extension crosses twice.
	seg := CircleSegment(Pt{0, 0}, 1, Pt{2, 0}, Pt{3, 0})
	assert.Empty(t, seg)

	line := CircleLine(Pt{0, 0}, 1, Pt{2, 0}, Pt{3, 0})
	require.Len(t, line, 2)
	line = sortPts(line)
	assert.InDelta(t, -1, line[0].X, Tol)
	assert.InDelta(t, 1, line[1].X, Tol)
}

func TestSegmentSegment(t *testing.T) {
	pts := SegmentSegment(Pt{0, 0}, Pt{1, 1}, Pt{0, 1}, Pt{1, 0})
	require.Len(t, pts, 1)
	assert.InDelta(t, 0.5, pts[0].X, Tol)
	assert.InDelta(t, 0.5, pts[0].Y, Tol)

	assert.Empty(t, SegmentSegment(Pt{0, 0}, Pt{1, 0}, Pt{0, 1}, Pt{1, 1}), "parallel")
	assert.Empty(t, SegmentSegment(Pt{0, 0}, Pt{1, 0}, Pt{2, 0}, Pt{3, 0}), "collinear")
	assert.Empty(t, SegmentSegment(Pt{0, 0}, Pt{1, 0}, Pt{2, 1}, Pt{2, -1}), "miss")
}

func TestPtOps(t *testing.T) {
	assert.InDelta(t, 5, Pt{3, 4}.Norm(), Eps)
	assert.InDelta(t, 5, Pt{0, 0}.Dist(Pt{3, 4}), Eps)
	assert.InDelta(t, 0, Pt{1, 0}.Dot(Pt{0, 1}), Eps)
	assert.InDelta(t, 1, Pt{1, 0}.Cross(Pt{0, 1}), Eps)
	assert.True(t, Coincident(Pt{0, 0}, Pt{0.0005, 0}))
	assert.False(t, Coincident(Pt{0, 0}, Pt{0.002, 0}))
}
