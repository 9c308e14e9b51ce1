package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porism/porism/internal/geom"
	"github.com/porism/porism/internal/prop"
)

func TestReplay_MatchesLiveSession(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := completeI1(t, reg, def)

	// Free-mode work after the proof, carried by the structural log.
	require.True(t, s.CommitCircle("p3", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c3", "c1")))

	res := Replay(reg, def, s.GivenPositions(), s.ExtraLog())

	require.True(t, res.Complete)
	assert.Equal(t, s.Conclusion(), res.Conclusion)

	// Same code path live and replayed: ids, labels, colors and
	// coordinates come out bit-identical.
	assert.Equal(t, s.State().Points(), res.State.Points())
	assert.Equal(t, s.State().Circles(), res.State.Circles())
	assert.Equal(t, s.State().Segments(), res.State.Segments())
	assert.ElementsMatch(t, s.Candidates(), res.Candidates)
}

func TestReplay_PerturbedGivensKeepTheProof(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")

	res := Replay(reg, def, map[string]geom.Pt{"p2": {X: 2, Y: 0}}, nil)

	require.True(t, res.Complete)
	assert.Equal(t, "AB = AC = BC", res.Conclusion)

	c, ok := res.State.PointByID("p3")
	require.True(t, ok)
	assert.Equal(t, "C", c.Label)
	assert.InDelta(t, 1.0, c.X, 1e-9)
	assert.InDelta(t, math.Sqrt(3), c.Y, 1e-9)

	a, _ := res.State.PointByID("p1")
	b, _ := res.State.PointByID("p2")
	assert.InDelta(t, 2.0, a.Pos().Dist(c.Pos()), 1e-9)
	assert.InDelta(t, 2.0, b.Pos().Dist(c.Pos()), 1e-9)
}

func TestReplay_DegenerateGivensSkipStepsWithoutError(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")

	// B dragged onto A: both circles have radius zero, the apex never
	// appears, and the joins that reference it skip.
	res := Replay(reg, def, map[string]geom.Pt{"p2": {X: 0, Y: 0}}, nil)

	assert.False(t, res.Complete)
	assert.Equal(t, 2, res.StepsCompleted)
	assert.Equal(t, 5, res.TotalSteps)
	assert.Empty(t, res.Conclusion)
	_, ok := res.State.PointByID("p3")
	assert.False(t, ok)
	assert.Len(t, res.State.Circles(), 2)
}

// vanishingDef is a construction whose middle intersection disappears
// under a drag, with a later element whose identity must not shift.
func vanishingDef() *prop.Def {
	return &prop.Def{
		ID:    "X.3",
		Title: "Exercise with a vanishing crossing.",
		GivenPoints: []prop.GivenPoint{
			{X: 0, Y: 0},
			{X: 1, Y: 0},
			{X: 0, Y: 0.5},
			{X: 2, Y: 0.5},
		},
		GivenSegments: []prop.GivenSegment{
			{FromID: "p3", ToID: "p4"},
		},
		Steps: []prop.Step{
			{Action: prop.Compass{CenterID: "p1", RadiusPointID: "p2"}},
			{Action: prop.Intersection{OfA: "c1", OfB: "s1"}},
			{Action: prop.Compass{CenterID: "p2", RadiusPointID: "p4"}},
		},
	}
}

func TestReplay_SkippedStepKeepsLaterIdentityStable(t *testing.T) {
	reg := prop.Builtins()
	def := vanishingDef()

	base := Replay(reg, def, nil, nil)
	require.True(t, base.Complete)
	crossing, ok := base.State.PointByID("p5")
	require.True(t, ok)
	assert.Equal(t, "E", crossing.Label)

	// Drag the crossbar out of reach: the crossing vanishes, the rest
	// survives, and the last circle keeps its id and color.
	moved := Replay(reg, def, map[string]geom.Pt{
		"p3": {X: 0, Y: 5},
		"p4": {X: 2, Y: 5},
	}, nil)

	assert.False(t, moved.Complete)
	assert.Equal(t, 2, moved.StepsCompleted)
	_, ok = moved.State.PointByID("p5")
	assert.False(t, ok)

	baseCircle, _ := base.State.CircleByID("c2")
	movedCircle, ok := moved.State.CircleByID("c2")
	require.True(t, ok)
	assert.Equal(t, baseCircle.Color, movedCircle.Color)

	// Drag back: the crossing returns under its original identity.
	back := Replay(reg, def, nil, nil)
	restored, ok := back.State.PointByID("p5")
	require.True(t, ok)
	assert.Equal(t, crossing.Label, restored.Label)
	assert.Equal(t, crossing.Color, restored.Color)
}

func TestReplay_ExtraLogReferencesSurviveDrag(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")
	s := completeI1(t, reg, def)
	require.True(t, s.CommitCircle("p3", "p1"))
	require.True(t, s.MarkIntersection(pickPair(t, s, "c3", "c1")))

	// An extreme drag keeps the proof intact (the triangle scales) but
	// shifts every derived coordinate; the structural log still
	// replays, because it references elements, not positions.
	res := Replay(reg, def, map[string]geom.Pt{"p2": {X: 5, Y: 0}}, s.ExtraLog())

	require.True(t, res.Complete)
	assert.Len(t, res.State.Circles(), 3)
	p4, ok := res.State.PointByID("p4")
	require.True(t, ok)
	live, _ := s.State().PointByID("p4")
	assert.Equal(t, live.Label, p4.Label)
	assert.Equal(t, live.Color, p4.Color)
	assert.NotEqual(t, live.Pos(), p4.Pos())
}

func TestReplay_GivenFactsAreSeeded(t *testing.T) {
	reg := prop.Builtins()
	def, _ := reg.Lookup("I.1")

	res := Replay(reg, def, nil, nil)
	require.True(t, res.Complete)

	// Every recorded fact carries a citation and a human statement.
	for _, f := range res.Facts {
		assert.NotNil(t, f.Citation)
		assert.NotEmpty(t, f.Statement)
	}
}
