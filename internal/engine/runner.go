package engine

import (
	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/facts"
)

// GhostLayer exposes one element of a macro's internal scaffolding.
// Elements reveal in the order the inner proof created them (Reveal is
// the ordinal within the invocation); Depth is the macro recursion depth
// that created the element; AtStep is the caller's step index the whole
// invocation counts as. Consumers render ghosts faintly and may reveal
// them progressively; none of this is enforced here.
type GhostLayer struct {
	ElementID string
	Depth     int
	AtStep    int
	Reveal    int
}

// runner is the shared execution substrate: the construction, its live
// candidate list, and the primitive apply operations. Session, macro
// execution and replay all mutate exactly one runner each.
type runner struct {
	state construction.State
	cands []construction.Candidate
}

// addCircle materializes a compass action and refreshes candidates.
// Returns false, changing nothing, when a referenced point is missing.
func (r *runner) addCircle(centerID, radiusPointID string, extend bool) (construction.Circle, bool) {
	if _, ok := r.state.PointByID(centerID); !ok {
		return construction.Circle{}, false
	}
	if _, ok := r.state.PointByID(radiusPointID); !ok {
		return construction.Circle{}, false
	}
	next, c := r.state.AddCircle(centerID, radiusPointID)
	r.state = next
	r.cands = append(r.cands, construction.FindNewIntersections(r.state, c.ID, r.cands, extend)...)
	return c, true
}

// addSegment materializes a straightedge action. An empty origin means
// "classify it": plain straightedge, or production when it extends an
// existing segment past an endpoint.
func (r *runner) addSegment(fromID, toID string, origin construction.SegmentOrigin, extend bool) (construction.Segment, bool) {
	if _, ok := r.state.PointByID(fromID); !ok {
		return construction.Segment{}, false
	}
	if _, ok := r.state.PointByID(toID); !ok {
		return construction.Segment{}, false
	}
	if origin == "" {
		origin = construction.InferSegmentOrigin(r.state, fromID, toID)
	}
	next, seg := r.state.AddSegment(fromID, toID, origin)
	r.state = next
	r.cands = append(r.cands, construction.FindNewIntersections(r.state, seg.ID, r.cands, extend)...)
	return seg, true
}

// markCandidate converts a candidate into a real point, consumes it from
// the candidate list, and derives the facts the marking licenses: for
// each parent circle, the new point's distance to the center equals the
// radius point's, by definition of a circle.
func (r *runner) markCandidate(cand construction.Candidate, label string, store *facts.Store, atStep int) construction.Point {
	next, p := r.state.AddPoint(cand.X, cand.Y, construction.PointIntersection, label)
	r.state = next

	kept := r.cands[:0:0]
	for _, c := range r.cands {
		if c != cand {
			kept = append(kept, c)
		}
	}
	r.cands = kept

	for _, parentID := range []string{cand.OfA, cand.OfB} {
		circle, ok := r.state.CircleByID(parentID)
		if !ok {
			continue
		}
		left := facts.Distance(circle.CenterID, p.ID)
		right := facts.Distance(circle.CenterID, circle.RadiusPointID)
		store.AddFact(left, right, facts.DefCircle,
			keyLabel(r.state, left)+" = "+keyLabel(r.state, right), atStep)
	}
	return p
}

// hasCandidate reports whether the exact candidate is currently live.
func (r *runner) hasCandidate(cand construction.Candidate) bool {
	for _, c := range r.cands {
		if c == cand {
			return true
		}
	}
	return false
}

// selectCandidate picks the candidate for an expected intersection: the
// one matching the unordered parent pair that passes the directional
// test when beyondID is set, otherwise the pair match with the largest
// y-coordinate. The highest-y rule is an arbitrary tie-break preserved
// from the authoring convention, not a geometric law.
func (r *runner) selectCandidate(ofA, ofB, beyondID string) (construction.Candidate, bool) {
	var best construction.Candidate
	found := false
	for _, c := range r.cands {
		if !c.SamePair(ofA, ofB) {
			continue
		}
		if beyondID != "" {
			if construction.IsCandidateBeyondPoint(r.state, c, beyondID) {
				return c, true
			}
			continue
		}
		if !found || c.Y > best.Y {
			best, found = c, true
		}
	}
	return best, found
}

// resolveCandidate finds the candidate a recorded log entry references:
// exact unordered pair plus disambiguating index.
func (r *runner) resolveCandidate(ofA, ofB string, which int) (construction.Candidate, bool) {
	for _, c := range r.cands {
		if c.SamePair(ofA, ofB) && c.Which == which {
			return c, true
		}
	}
	return construction.Candidate{}, false
}

// keyLabel renders a fact key with display labels, e.g. "AC" or "∠BAC".
func keyLabel(s construction.State, k facts.Key) string {
	switch v := k.(type) {
	case facts.DistanceKey:
		return s.LabelOf(v.A) + s.LabelOf(v.B)
	case facts.AngleKey:
		return "∠" + s.LabelOf(v.Ray1) + s.LabelOf(v.Vertex) + s.LabelOf(v.Ray2)
	}
	return k.String()
}

// describer returns the consequence-statement formatter for a store
// bound to this runner. It reads the runner's state at call time, so
// statements use the labels current when the fact is derived.
func (r *runner) describer() func(a, b facts.Key) string {
	return func(a, b facts.Key) string {
		return keyLabel(r.state, a) + " = " + keyLabel(r.state, b)
	}
}
