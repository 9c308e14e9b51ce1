package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/prop"
)

// pickPair returns the live candidate for the unordered pair with the
// largest y-coordinate.
func pickPair(t *testing.T, s *Session, a, b string) construction.Candidate {
	t.Helper()
	var best construction.Candidate
	found := false
	for _, c := range s.Candidates() {
		if c.SamePair(a, b) && (!found || c.Y > best.Y) {
			best, found = c, true
		}
	}
	require.True(t, found, "no candidate for pair {%s,%s}", a, b)
	return best
}

// pickBeyond returns the live candidate for the pair that lies beyond
// the named point.
func pickBeyond(t *testing.T, s *Session, a, b, beyondID string) construction.Candidate {
	t.Helper()
	for _, c := range s.Candidates() {
		if c.SamePair(a, b) && construction.IsCandidateBeyondPoint(s.State(), c, beyondID) {
			return c
		}
	}
	t.Fatalf("no candidate for pair {%s,%s} beyond %s", a, b, beyondID)
	return construction.Candidate{}
}

func TestSession_EquilateralTriangle(t *testing.T) {
	reg := prop.Builtins()
	def, ok := reg.Lookup("I.1")
	require.True(t, ok)
	s := NewSession(def, reg)

	require.True(t, s.CommitCircle("p1", "p2"))
	require.True(t, s.CommitCircle("p2", "p1"))

	cand := pickPair(t, s, "c1", "c2")
	require.True(t, s.MarkIntersection(cand))

	c, ok := s.State().PointByID("p3")
	require.True(t, ok)
	assert.Equal(t, "C", c.Label)
	assert.InDelta(t, 0.5, c.X, 1e-3)
	assert.InDelta(t, 0.8660, c.Y, 1e-3)

	// Radius equalities land when C is marked, and transitivity closes
	// the triangle.
	ab := facts.Distance("p1", "p2")
	ac := facts.Distance("p1", "p3")
	bc := facts.Distance("p2", "p3")
	assert.True(t, s.Store().QueryEquality(ac, ab))
	assert.True(t, s.Store().QueryEquality(bc, ab))
	assert.True(t, s.Store().QueryEquality(ac, bc))

	require.True(t, s.CommitSegment("p1", "p3"))
	require.True(t, s.CommitSegment("p2", "p3"))

	assert.True(t, s.Complete())
	assert.Equal(t, "AB = AC = BC", s.Conclusion())
	assert.Equal(t, 5, s.StepIndex())
}

func TestSession_MarkFactOrderIsNewestCircleFirst(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := NewSession(def, reg)

	require.True(t, s.CommitCircle("p1", "p2"))
	require.True(t, s.CommitCircle("p2", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c1", "c2")))

	// Marking derives the radius equality of the newer circle first,
	// then the older one, then the transitive consequence. Golden trace
	// files depend on this ledger order.
	var got []string
	for _, f := range s.Facts() {
		got = append(got, f.Statement)
	}
	assert.Equal(t, []string{"BC = AB", "AC = AB", "AC = BC"}, got)
}

func TestSession_WrongActionIsPureNoOp(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := NewSession(def, reg)

	before := s.State()
	snapCount := s.SnapshotCount()

	// Step 0 expects circle(p1 through p2); everything else must change
	// nothing.
	assert.False(t, s.CommitCircle("p2", "p1"), "swapped compass")
	assert.False(t, s.CommitSegment("p1", "p2"), "wrong tool")
	assert.False(t, s.CommitMacro("I.1", []string{"p1", "p2"}), "wrong tool")
	assert.False(t, s.MarkIntersection(construction.Candidate{OfA: "c1", OfB: "c2"}), "candidate not live")

	assert.Equal(t, 0, s.StepIndex())
	assert.Equal(t, snapCount, s.SnapshotCount())
	assert.Equal(t, len(before.Points()), len(s.State().Points()))
	assert.Equal(t, len(before.Circles()), len(s.State().Circles()))
	assert.Equal(t, 0, s.Store().Len())
}

func TestSession_BeyondDisambiguatorRejectsNearCandidate(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.2")
	s := NewSession(def, reg)

	require.True(t, s.CommitSegment("p1", "p2"))
	require.True(t, s.CommitMacro("I.1", []string{"p1", "p2"}))
	require.True(t, s.CommitCircle("p2", "p3"))

	// Step expects the candidate of {c3, s4} beyond B. A candidate of
	// the right pair on the wrong side must be rejected; candidates of
	// other pairs must be rejected outright.
	for _, c := range s.Candidates() {
		if c.SamePair("c3", "s4") && construction.IsCandidateBeyondPoint(s.State(), c, "p2") {
			continue
		}
		assert.False(t, s.MarkIntersection(c))
	}
	assert.Equal(t, 3, s.StepIndex())

	cand := pickBeyond(t, s, "c3", "s4", "p2")
	assert.True(t, s.MarkIntersection(cand))
	assert.Equal(t, 4, s.StepIndex())
}

func TestSession_RewindToStep(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := NewSession(def, reg)

	require.True(t, s.CommitCircle("p1", "p2"))
	require.True(t, s.CommitCircle("p2", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c1", "c2")))
	require.Equal(t, 3, s.StepIndex())
	factsAtThree := s.Store().Len()
	require.Greater(t, factsAtThree, 0)

	require.True(t, s.RewindToStep(1))

	// Exactly the world immediately after step 1.
	assert.Equal(t, 1, s.StepIndex())
	assert.Equal(t, 2, s.SnapshotCount())
	assert.Len(t, s.State().Circles(), 1)
	assert.Len(t, s.State().Points(), 2)
	assert.Equal(t, 0, s.Store().Len())
	assert.Empty(t, s.Candidates())
	assert.False(t, s.StepDone(1))
	assert.True(t, s.StepDone(0))
	assert.False(t, s.Complete())

	// The machine accepts the same class of action again and produces
	// the same class of result.
	require.True(t, s.CommitCircle("p2", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c1", "c2")))
	p, ok := s.State().PointByID("p3")
	require.True(t, ok)
	assert.Equal(t, "C", p.Label)
	assert.InDelta(t, 0.8660, p.Y, 1e-3)
	assert.Equal(t, factsAtThree, s.Store().Len())
}

func TestSession_RewindRejectsOutOfRange(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := NewSession(def, reg)
	assert.False(t, s.RewindToStep(-1))
	assert.False(t, s.RewindToStep(1), "no snapshot for an unreached step")
	assert.True(t, s.RewindToStep(0))
}

func TestSession_SnapshotsSurviveLaterMutation(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := NewSession(def, reg)

	require.True(t, s.CommitCircle("p1", "p2"))
	afterOne := s.State()

	require.True(t, s.CommitCircle("p2", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c1", "c2")))

	// The captured value still describes its own moment.
	assert.Len(t, afterOne.Circles(), 1)
	assert.Len(t, afterOne.Points(), 2)
}

func TestSession_FreeActionsAfterCompletionAreLogged(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := completeI1(t, reg, def)

	require.True(t, s.CommitCircle("p3", "p1"))
	cand := pickPair(t, s, "c3", "c1")
	require.True(t, s.MarkIntersection(cand))

	log := s.ExtraLog()
	require.Len(t, log, 2)
	assert.Equal(t, 5, s.StepIndex(), "free actions never advance the step")
	assert.Len(t, s.State().Points(), 4)
}

func completeI1(t *testing.T, reg *prop.Registry, def *prop.Def) *Session {
	t.Helper()
	s := NewSession(def, reg)
	require.True(t, s.CommitCircle("p1", "p2"))
	require.True(t, s.CommitCircle("p2", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c1", "c2")))
	require.True(t, s.CommitSegment("p1", "p3"))
	require.True(t, s.CommitSegment("p2", "p3"))
	require.True(t, s.Complete())
	return s
}
