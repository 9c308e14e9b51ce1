package construction

import (
	"github.com/porism/porism/internal/geom"
)

// Candidate is an unconfirmed intersection point between two elements. It
// exists only until it is marked as a real Point or a replay drops it.
// OfA/OfB form an unordered parent pair; Which disambiguates when one pair
// yields more than one candidate.
type Candidate struct {
	X, Y  float64
	OfA   string
	OfB   string
	Which int
}

// Pos returns the candidate's position.
func (c Candidate) Pos() geom.Pt {
	return geom.Pt{X: c.X, Y: c.Y}
}

// SamePair reports whether the candidate's unordered parent pair is
// {a, b}.
func (c Candidate) SamePair(a, b string) bool {
	return (c.OfA == a && c.OfB == b) || (c.OfA == b && c.OfB == a)
}

// FindNewIntersections computes every candidate introduced by one freshly
// added circle or segment (by id) against all prior elements. Results that
// coincide within geom.Tol with an existing Point, an existing candidate,
// or an earlier result of this call are discarded.
//
// When extendSegments is set, segments drawn by straightedge (or given)
// whose endpoint carries a circle's center are additionally intersected
// against their infinite-line extension; only the extension hits not
// already found on the finite segment survive. Extension is opt-in because
// unrestricted extension floods early proofs with irrelevant candidates.
func FindNewIntersections(s State, newID string, existing []Candidate, extendSegments bool) []Candidate {
	var found []Candidate

	keep := func(pts []geom.Pt, a, b string) {
		base := 0
		for _, c := range existing {
			if c.SamePair(a, b) {
				base++
			}
		}
		for _, c := range found {
			if c.SamePair(a, b) {
				base++
			}
		}
		for _, pt := range pts {
			if coincidesWithAny(s, existing, found, pt) {
				continue
			}
			found = append(found, Candidate{X: pt.X, Y: pt.Y, OfA: a, OfB: b, Which: base})
			base++
		}
	}

	if circle, ok := s.CircleByID(newID); ok {
		center, ok1 := s.PointPos(circle.CenterID)
		if !ok1 {
			return nil
		}
		r := s.Radius(newID)
		for _, other := range s.Circles() {
			if other.ID == newID {
				continue
			}
			oc, ok := s.PointPos(other.CenterID)
			if !ok {
				continue
			}
			keep(geom.CircleCircle(center, r, oc, s.Radius(other.ID)), newID, other.ID)
		}
		for _, seg := range s.Segments() {
			keep(circleSegmentHits(s, circle, seg, extendSegments), newID, seg.ID)
		}
		return found
	}

	if seg, ok := s.SegmentByID(newID); ok {
		from, ok1 := s.PointPos(seg.FromID)
		to, ok2 := s.PointPos(seg.ToID)
		if !ok1 || !ok2 {
			return nil
		}
		for _, circle := range s.Circles() {
			keep(circleSegmentHits(s, circle, seg, extendSegments), seg.ID, circle.ID)
		}
		for _, other := range s.Segments() {
			if other.ID == seg.ID {
				continue
			}
			of, ok1 := s.PointPos(other.FromID)
			ot, ok2 := s.PointPos(other.ToID)
			if !ok1 || !ok2 {
				continue
			}
			keep(geom.SegmentSegment(from, to, of, ot), seg.ID, other.ID)
		}
		return found
	}

	return nil
}

// circleSegmentHits intersects one circle with one segment, appending the
// extended-line hits when the extension rule applies: the segment is
// straightedge-drawn or given, and the circle's center sits at one of its
// endpoints.
func circleSegmentHits(s State, circle Circle, seg Segment, extendSegments bool) []geom.Pt {
	center, ok := s.PointPos(circle.CenterID)
	if !ok {
		return nil
	}
	from, ok1 := s.PointPos(seg.FromID)
	to, ok2 := s.PointPos(seg.ToID)
	if !ok1 || !ok2 {
		return nil
	}
	r := s.Radius(circle.ID)

	hits := geom.CircleSegment(center, r, from, to)
	if !extendSegments || seg.Origin == SegmentProduction {
		return hits
	}
	if circle.CenterID != seg.FromID && circle.CenterID != seg.ToID {
		return hits
	}
	for _, pt := range geom.CircleLine(center, r, from, to) {
		onFinite := false
		for _, h := range hits {
			if geom.Coincident(pt, h) {
				onFinite = true
				break
			}
		}
		if !onFinite {
			hits = append(hits, pt)
		}
	}
	return hits
}

func coincidesWithAny(s State, existing, found []Candidate, pt geom.Pt) bool {
	for _, p := range s.Points() {
		if geom.Coincident(pt, p.Pos()) {
			return true
		}
	}
	for _, c := range existing {
		if geom.Coincident(pt, c.Pos()) {
			return true
		}
	}
	for _, c := range found {
		if geom.Coincident(pt, c.Pos()) {
			return true
		}
	}
	return false
}

// IsCandidateBeyondPoint reports whether the candidate lies beyond the
// named point on the ray defined by a parent segment: among the
// candidate's parents there must be a segment with beyondID as one
// endpoint, and the candidate must sit on the far side of that endpoint
// from the other one. This is the directional test proofs use to pick a
// specific one of two symmetric intersections.
func IsCandidateBeyondPoint(s State, cand Candidate, beyondID string) bool {
	for _, parentID := range []string{cand.OfA, cand.OfB} {
		seg, ok := s.SegmentByID(parentID)
		if !ok {
			continue
		}
		var otherID string
		switch beyondID {
		case seg.FromID:
			otherID = seg.ToID
		case seg.ToID:
			otherID = seg.FromID
		default:
			continue
		}
		beyond, ok1 := s.PointPos(beyondID)
		other, ok2 := s.PointPos(otherID)
		if !ok1 || !ok2 {
			continue
		}
		if cand.Pos().Sub(beyond).Dot(beyond.Sub(other)) > 0 {
			return true
		}
	}
	return false
}

// InferSegmentOrigin classifies a segment about to be drawn between two
// points: when it extends an existing straightedge or given segment past
// the shared endpoint (collinear, opposite direction), it is a
// production segment; otherwise a plain straightedge one.
func InferSegmentOrigin(s State, fromID, toID string) SegmentOrigin {
	from, ok1 := s.PointPos(fromID)
	to, ok2 := s.PointPos(toID)
	if !ok1 || !ok2 {
		return SegmentStraightedge
	}
	for _, seg := range s.Segments() {
		if seg.Origin == SegmentProduction {
			continue
		}
		for _, endID := range []string{seg.FromID, seg.ToID} {
			if endID != fromID && endID != toID {
				continue
			}
			shared := endID
			var sharedPos, newEnd geom.Pt
			if shared == fromID {
				sharedPos, newEnd = from, to
			} else {
				sharedPos, newEnd = to, from
			}
			otherID := seg.FromID
			if otherID == shared {
				otherID = seg.ToID
			}
			if otherID == fromID || otherID == toID {
				continue
			}
			other, ok := s.PointPos(otherID)
			if !ok {
				continue
			}
			u := newEnd.Sub(sharedPos)
			v := sharedPos.Sub(other)
			if u.Norm() < geom.Eps || v.Norm() < geom.Eps {
				continue
			}
			colinear := u.Cross(v)
			if u.Dot(v) > 0 && colinear < geom.Tol*u.Norm()*v.Norm() && colinear > -geom.Tol*u.Norm()*v.Norm() {
				return SegmentProduction
			}
		}
	}
	return SegmentStraightedge
}
