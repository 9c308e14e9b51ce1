package construction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoCircles builds the equilateral-triangle opening: A=(0,0), B=(1,0),
// circle at A through B, circle at B through A.
func twoCircles(t *testing.T) (State, Circle, Circle) {
	t.Helper()
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")
	s, _ = s.AddPoint(1, 0, PointGiven, "")
	s, c1 := s.AddCircle("p1", "p2")
	s, c2 := s.AddCircle("p2", "p1")
	return s, c1, c2
}

func TestFindNewIntersections_CircleCircle(t *testing.T) {
	s, _, c2 := twoCircles(t)

	cands := FindNewIntersections(s, c2.ID, nil, false)
	require.Len(t, cands, 2)

	for _, c := range cands {
		assert.True(t, c.SamePair("c1", "c2"))
		assert.InDelta(t, 0.5, c.X, 1e-9)
		assert.InDelta(t, math.Sqrt(3)/2, math.Abs(c.Y), 1e-9)
	}
	assert.NotEqual(t, cands[0].Which, cands[1].Which)
}

func TestFindNewIntersections_DedupesAgainstPointsAndCandidates(t *testing.T) {
	s, _, c2 := twoCircles(t)
	cands := FindNewIntersections(s, c2.ID, nil, false)
	require.Len(t, cands, 2)

	// Mark the upper candidate as a real point, then re-discover: the
	// marked point must not come back as a candidate.
	upper := cands[0]
	if cands[1].Y > upper.Y {
		upper = cands[1]
	}
	s, _ = s.AddPoint(upper.X, upper.Y, PointIntersection, "")
	remaining := []Candidate{cands[0]}
	if remaining[0] == upper {
		remaining = []Candidate{cands[1]}
	}

	again := FindNewIntersections(s, c2.ID, remaining, false)
	assert.Empty(t, again)
}

func TestFindNewIntersections_SegmentAgainstCircle(t *testing.T) {
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")
	s, _ = s.AddPoint(1, 0, PointGiven, "")
	s, _ = s.AddPoint(-2, 0, PointFree, "")
	s, _ = s.AddCircle("p1", "p2")
	s, seg := s.AddSegment("p3", "p2", SegmentStraightedge)

	// The segment from (-2,0) to (1,0) crosses the unit circle at
	// (-1,0) and ends on it at (1,0); the endpoint is an existing
	// point, so only the crossing survives.
	cands := FindNewIntersections(s, seg.ID, nil, false)
	require.Len(t, cands, 1)
	assert.InDelta(t, -1, cands[0].X, 1e-9)
	assert.True(t, cands[0].SamePair(seg.ID, "c1"))
}

func TestFindNewIntersections_ExtensionOptIn(t *testing.T) {
	// Segment AB with a circle centered at B not reaching past the
	// finite segment's far side: only the extension crosses beyond A.
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")  // A
	s, _ = s.AddPoint(1, 0, PointGiven, "")  // B
	s, _ = s.AddPoint(4, 0, PointFree, "")   // rim point
	s, _ = s.AddSegment("p1", "p2", SegmentStraightedge)
	s, c := s.AddCircle("p2", "p3") // center B, radius 3

	withoutExt := FindNewIntersections(s, c.ID, nil, false)
	assert.Empty(t, withoutExt, "finite segment lies inside the circle")

	withExt := FindNewIntersections(s, c.ID, nil, true)
	require.Len(t, withExt, 1)
	assert.InDelta(t, -2, withExt[0].X, 1e-9)
	assert.InDelta(t, 0, withExt[0].Y, 1e-9)
}

func TestFindNewIntersections_NoExtensionForProductionSegments(t *testing.T) {
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")
	s, _ = s.AddPoint(1, 0, PointGiven, "")
	s, _ = s.AddPoint(4, 0, PointFree, "")
	s, _ = s.AddSegment("p1", "p2", SegmentProduction)
	s, c := s.AddCircle("p2", "p3")

	assert.Empty(t, FindNewIntersections(s, c.ID, nil, true))
}

func TestFindNewIntersections_ExtensionRequiresCenterAtEndpoint(t *testing.T) {
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")
	s, _ = s.AddPoint(1, 0, PointGiven, "")
	s, _ = s.AddPoint(0.5, 5, PointFree, "")  // center off the segment
	s, _ = s.AddPoint(0.5, -1, PointFree, "") // rim, radius 6
	s, _ = s.AddSegment("p1", "p2", SegmentStraightedge)
	s, c := s.AddCircle("p3", "p4")

	// The circle clears the finite segment but would cross its infinite
	// extension; the rule does not fire because the center is not an
	// endpoint of the segment.
	assert.Empty(t, FindNewIntersections(s, c.ID, nil, true))
}

func TestIsCandidateBeyondPoint(t *testing.T) {
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")  // A
	s, _ = s.AddPoint(1, 0, PointGiven, "")  // B
	s, _ = s.AddPoint(4, 0, PointFree, "")
	s, seg := s.AddSegment("p1", "p2", SegmentStraightedge)
	s, c := s.AddCircle("p2", "p3")

	beyondA := Candidate{X: -2, Y: 0, OfA: c.ID, OfB: seg.ID}
	between := Candidate{X: 0.5, Y: 0, OfA: c.ID, OfB: seg.ID}

	assert.True(t, IsCandidateBeyondPoint(s, beyondA, "p1"))
	assert.False(t, IsCandidateBeyondPoint(s, beyondA, "p2"))
	assert.False(t, IsCandidateBeyondPoint(s, between, "p1"))

	// A candidate whose parents are both circles has no ray to test.
	assert.False(t, IsCandidateBeyondPoint(s, Candidate{X: -2, OfA: "c1", OfB: "c9"}, "p1"))
}

func TestInferSegmentOrigin(t *testing.T) {
	s := NewState()
	s, _ = s.AddPoint(0, 0, PointGiven, "")   // A
	s, _ = s.AddPoint(1, 0, PointGiven, "")   // B
	s, _ = s.AddPoint(-2, 0, PointFree, "")   // beyond A, collinear
	s, _ = s.AddPoint(1, 2, PointFree, "")    // off the line
	s, _ = s.AddSegment("p1", "p2", SegmentStraightedge)

	assert.Equal(t, SegmentProduction, InferSegmentOrigin(s, "p1", "p3"),
		"extends BA past A")
	assert.Equal(t, SegmentStraightedge, InferSegmentOrigin(s, "p1", "p4"),
		"not collinear")
	assert.Equal(t, SegmentStraightedge, InferSegmentOrigin(s, "p3", "p4"),
		"no shared endpoint")
}
