package construction

import (
	"fmt"
	"slices"

	"github.com/porism/porism/internal/geom"
)

// PointOrigin records how a point came to exist.
type PointOrigin string

const (
	PointGiven        PointOrigin = "given"
	PointFree         PointOrigin = "free"
	PointIntersection PointOrigin = "intersection"
)

// SegmentOrigin records how a segment came to exist. Production segments
// (a segment extended past one of its endpoints, Postulate-2 style) are
// excluded from further extended-line intersection math.
type SegmentOrigin string

const (
	SegmentGiven        SegmentOrigin = "given"
	SegmentStraightedge SegmentOrigin = "straightedge"
	SegmentProduction   SegmentOrigin = "production"
)

// Point is an immutable construction point. A drag never mutates a Point
// in place; it triggers a full replay that re-derives a new Point with the
// same id and label at new coordinates.
type Point struct {
	ID     string
	X, Y   float64
	Label  string
	Color  int
	Origin PointOrigin
}

// Pos returns the point's position.
func (p Point) Pos() geom.Pt {
	return geom.Pt{X: p.X, Y: p.Y}
}

// Circle references its center and radius point by id. The radius is
// always computed live; see State.Radius.
type Circle struct {
	ID            string
	CenterID      string
	RadiusPointID string
	Color         int
}

// Segment references its endpoints by id.
type Segment struct {
	ID     string
	FromID string
	ToID   string
	Color  int
	Origin SegmentOrigin
}

// State is the authoritative model of a construction. The zero value is an
// empty construction ready for use.
type State struct {
	points   []Point
	circles  []Circle
	segments []Segment

	nextPoint   int
	nextCircle  int
	nextSegment int
	nextLabel   int
	nextColor   int
}

// NewState returns an empty construction.
func NewState() State {
	return State{}
}

// AddPoint creates a point and returns the new state together with it.
// If explicitLabel is non-empty it is used verbatim and the label counter
// does not advance; author-specified intersection names never consume the
// alphabet sequence.
func (s State) AddPoint(x, y float64, origin PointOrigin, explicitLabel string) (State, Point) {
	label := explicitLabel
	if label == "" {
		label = labelFor(s.nextLabel)
		s.nextLabel++
	}
	p := Point{
		ID:     fmt.Sprintf("p%d", s.nextPoint+1),
		X:      x,
		Y:      y,
		Label:  label,
		Color:  s.nextColor,
		Origin: origin,
	}
	s.nextPoint++
	s.nextColor++
	s.points = append(slices.Clip(s.points), p)
	return s, p
}

// AddCircle creates a circle centered at centerID passing through
// radiusPointID. Id validity is the caller's concern; the state machine
// and selector resolution enforce it one layer up.
func (s State) AddCircle(centerID, radiusPointID string) (State, Circle) {
	c := Circle{
		ID:            fmt.Sprintf("c%d", s.nextCircle+1),
		CenterID:      centerID,
		RadiusPointID: radiusPointID,
		Color:         s.nextColor,
	}
	s.nextCircle++
	s.nextColor++
	s.circles = append(slices.Clip(s.circles), c)
	return s, c
}

// AddSegment creates a segment between two existing points.
func (s State) AddSegment(fromID, toID string, origin SegmentOrigin) (State, Segment) {
	seg := Segment{
		ID:     fmt.Sprintf("s%d", s.nextSegment+1),
		FromID: fromID,
		ToID:   toID,
		Color:  s.nextColor,
		Origin: origin,
	}
	s.nextSegment++
	s.nextColor++
	s.segments = append(slices.Clip(s.segments), seg)
	return s, seg
}

// SkipPointLabel advances the label and color counters as if a point had
// been created, without creating one. Replay uses this when a step's
// expected intersection does not exist under perturbed given positions:
// label assignment for every later element must not shift.
//
// A step whose point carried an explicit label never consumed the
// sequence, so skipping it only burns a color.
func (s State) SkipPointLabel(explicitLabel string) State {
	if explicitLabel == "" {
		s.nextLabel++
	}
	s.nextColor++
	return s
}

// SkipColor advances the color counter alone. Replay uses this for a
// circle or segment step that cannot run because a point it references
// was never derived.
func (s State) SkipColor() State {
	s.nextColor++
	return s
}

// PointByID returns the point with the given id.
func (s State) PointByID(id string) (Point, bool) {
	for _, p := range s.points {
		if p.ID == id {
			return p, true
		}
	}
	return Point{}, false
}

// CircleByID returns the circle with the given id.
func (s State) CircleByID(id string) (Circle, bool) {
	for _, c := range s.circles {
		if c.ID == id {
			return c, true
		}
	}
	return Circle{}, false
}

// SegmentByID returns the segment with the given id.
func (s State) SegmentByID(id string) (Segment, bool) {
	for _, seg := range s.segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

// SegmentBetween returns a segment joining the two points, in either
// orientation.
func (s State) SegmentBetween(aID, bID string) (Segment, bool) {
	for _, seg := range s.segments {
		if (seg.FromID == aID && seg.ToID == bID) || (seg.FromID == bID && seg.ToID == aID) {
			return seg, true
		}
	}
	return Segment{}, false
}

// Points returns all points in creation order. The returned slice must be
// treated as read-only.
func (s State) Points() []Point { return s.points }

// Circles returns all circles in creation order.
func (s State) Circles() []Circle { return s.circles }

// Segments returns all segments in creation order.
func (s State) Segments() []Segment { return s.segments }

// PointPos returns the position of a point by id. The second result is
// false when the id is unknown.
func (s State) PointPos(id string) (geom.Pt, bool) {
	p, ok := s.PointByID(id)
	if !ok {
		return geom.Pt{}, false
	}
	return p.Pos(), true
}

// Radius computes the circle's radius as the live distance between its
// center and radius point. Never cached.
func (s State) Radius(circleID string) float64 {
	c, ok := s.CircleByID(circleID)
	if !ok {
		return 0
	}
	center, ok1 := s.PointPos(c.CenterID)
	rim, ok2 := s.PointPos(c.RadiusPointID)
	if !ok1 || !ok2 {
		return 0
	}
	return center.Dist(rim)
}

// LabelOf returns the display label for a point id, or the id itself when
// the point is unknown. Fact statements use this so they stay printable
// even mid-replay.
func (s State) LabelOf(id string) string {
	if p, ok := s.PointByID(id); ok {
		return p.Label
	}
	return id
}
