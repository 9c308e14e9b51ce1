package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_Canonical(t *testing.T) {
	assert.Equal(t, Distance("p1", "p2"), Distance("p2", "p1"))
	assert.Equal(t, Angle("p1", "p2", "p3"), Angle("p1", "p3", "p2"))
	assert.NotEqual(t, Angle("p2", "p1", "p3"), Angle("p1", "p2", "p3"),
		"different vertex is a different angle")
}

func TestAddFact_DirectAndQuery(t *testing.T) {
	st := NewStore()
	ab := Distance("p1", "p2")
	ac := Distance("p1", "p3")

	appended := st.AddFact(ac, ab, DefCircle, "AC = AB", 0)
	require.Len(t, appended, 1)

	assert.True(t, st.QueryEquality(ab, ac))
	assert.True(t, st.QueryEquality(ac, ab), "query is symmetric")
	assert.False(t, st.QueryEquality(ab, Distance("p1", "p4")))
}

func TestAddFact_TransitiveConsequenceSharesCitation(t *testing.T) {
	st := NewStore()
	ab := Distance("p1", "p2")
	ac := Distance("p1", "p3")
	bc := Distance("p2", "p3")

	st.AddFact(ac, ab, DefCircle, "AC = AB", 2)

	// BC = AB, and AB was already connected to AC, so BC = AC comes out
	// as a recorded consequence of the same step.
	appended := st.AddFact(bc, ab, DefCircle, "BC = AB", 2)
	require.Len(t, appended, 2)
	assert.Equal(t, bc, appended[1].Left)
	assert.Equal(t, ac, appended[1].Right)
	assert.Equal(t, DefCircle, appended[1].Citation)
	assert.Equal(t, 2, appended[1].AtStep)

	assert.True(t, st.QueryEquality(ac, bc))
}

func TestAddFact_ImpliedFactChangesNoClass(t *testing.T) {
	st := NewStore()
	ab := Distance("p1", "p2")
	ac := Distance("p1", "p3")
	bc := Distance("p2", "p3")
	st.AddFact(ac, ab, DefCircle, "AC = AB", 0)
	st.AddFact(bc, ab, DefCircle, "BC = AB", 1)

	before := st.EqualClass(ab)

	// AC = BC is already implied; inserting it appends a log line but
	// produces no consequences and no class change.
	appended := st.AddFact(ac, bc, CommonNotion{Number: 1}, "AC = BC", 2)
	require.Len(t, appended, 1)
	assert.Equal(t, before, st.EqualClass(ab))

	keys := []Key{ab, ac, bc, Distance("p4", "p5")}
	for _, a := range keys {
		for _, b := range keys {
			assert.Equal(t,
				Rebuild(st.Facts()[:3]).QueryEquality(a, b),
				st.QueryEquality(a, b),
				"%v vs %v", a, b)
		}
	}
}

func TestAddFact_Rejections(t *testing.T) {
	st := NewStore()
	assert.Nil(t, st.AddFact(Distance("p1", "p2"), Distance("p1", "p2"), Given{}, "AB = AB", 0),
		"self-equality is not a fact")
	assert.Nil(t, st.AddFact(Distance("p1", "p2"), Angle("p1", "p2", "p3"), Given{}, "", 0),
		"a distance never equals an angle")
	assert.Equal(t, 0, st.Len())
}

func TestEqualClassAndKindFilters(t *testing.T) {
	st := NewStore()
	ab := Distance("p1", "p2")
	ac := Distance("p1", "p3")
	bc := Distance("p2", "p3")
	st.AddFact(ac, ab, DefCircle, "", 0)
	st.AddFact(bc, ab, DefCircle, "", 1)

	class := st.EqualDistances(ab)
	assert.Len(t, class, 3)

	ang := Angle("p1", "p2", "p3")
	ang2 := Angle("p2", "p1", "p3")
	st.AddFact(ang, ang2, Given{}, "", AtGiven)
	assert.Len(t, st.EqualAngles(ang), 2)
	assert.Len(t, st.EqualDistances(ab), 3, "angle facts do not leak into distance classes")
}

func TestRebuild_FromPrefix(t *testing.T) {
	st := NewStore()
	ab := Distance("p1", "p2")
	ac := Distance("p1", "p3")
	bc := Distance("p2", "p3")
	st.AddFact(ac, ab, DefCircle, "", 0)
	st.AddFact(bc, ab, DefCircle, "", 1)

	all := st.Facts()

	// Rebuilding from the one-fact prefix forgets the later step.
	short := Rebuild(all[:1])
	assert.True(t, short.QueryEquality(ab, ac))
	assert.False(t, short.QueryEquality(ab, bc))

	// Rebuilding from the full list is equivalent to the original.
	full := Rebuild(all)
	assert.True(t, full.QueryEquality(ac, bc))
	assert.Equal(t, st.Len(), full.Len())
}

func TestDescribe_UsedForConsequences(t *testing.T) {
	st := NewStore()
	st.Describe = func(a, b Key) string { return "<" + a.String() + "|" + b.String() + ">" }

	ab := Distance("p1", "p2")
	ac := Distance("p1", "p3")
	bc := Distance("p2", "p3")
	st.AddFact(ac, ab, DefCircle, "AC = AB", 0)
	appended := st.AddFact(bc, ab, DefCircle, "BC = AB", 1)
	require.Len(t, appended, 2)
	assert.Equal(t, "<p2p3|p1p3>", appended[1].Statement)
}
