package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porism/porism/internal/engine"
	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/prop"
)

func TestLoadPacks_Valid(t *testing.T) {
	result, errs := LoadPacks("testdata/valid", LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Defs, 2)

	triangle := result.Defs[0]
	assert.Equal(t, "X.1", triangle.ID)
	assert.Equal(t, "To construct an equilateral triangle on a given segment.", triangle.Title)
	require.Len(t, triangle.GivenPoints, 2)
	assert.Equal(t, prop.GivenSegment{FromID: "p1", ToID: "p2"}, triangle.GivenSegments[0])
	require.Len(t, triangle.Steps, 5)
	assert.Equal(t, prop.Compass{CenterID: "p1", RadiusPointID: "p2"}, triangle.Steps[0].Action)
	assert.Equal(t, "Post. 3", triangle.Steps[0].CitationKey)
	assert.Equal(t, prop.Intersection{OfA: "c1", OfB: "c2", Label: "C"}, triangle.Steps[2].Action)
	assert.Equal(t, []string{"s1", "s2", "s3"}, triangle.ResultSegments)
	assert.False(t, triangle.ExtendSegments)

	placement := result.Defs[1]
	assert.Equal(t, "X.2", placement.ID)
	assert.True(t, placement.ExtendSegments)
	require.Len(t, placement.GivenPoints, 3)
	assert.Equal(t, "C", placement.GivenPoints[2].Label)
	require.Len(t, placement.GivenFacts, 1)
	assert.Equal(t, facts.Distance("p1", "p2"), placement.GivenFacts[0].Left)
	assert.Equal(t, "AB = BC", placement.GivenFacts[0].Statement)
	assert.Equal(t, prop.Macro{
		PropID:        "X.1",
		InputPointIDs: []string{"p1", "p2"},
		OutputLabels:  []string{"D"},
	}, placement.Steps[1].Action)
	assert.Equal(t, prop.Intersection{OfA: "c3", OfB: "s4", BeyondID: "p2", Label: "G"}, placement.Steps[3].Action)
}

func TestLoadPacks_LoadedDefsReplay(t *testing.T) {
	reg := prop.NewRegistry()
	result, errs := LoadIntoRegistry(reg, "testdata/valid", LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Defs, 2)

	// The loaded triangle runs end to end under the default conclusion.
	def, ok := reg.Lookup("X.1")
	require.True(t, ok)
	res := engine.Replay(reg, def, nil, nil)
	require.True(t, res.Complete)
	assert.Equal(t, "AB = AC = BC", res.Conclusion)

	// The placement pack exercises macro invocation of a pack-defined
	// proposition.
	def, ok = reg.Lookup("X.2")
	require.True(t, ok)
	res = engine.Replay(reg, def, nil, nil)
	require.True(t, res.Complete)
	g, ok := res.State.PointByID("p5")
	require.True(t, ok)
	assert.Equal(t, "G", g.Label)
}

func TestLoadPacks_CollectAllGathersEveryError(t *testing.T) {
	result, errs := LoadPacks("testdata/invalid", LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 2)
	assert.ErrorContains(t, errs[0], "title is required")
	assert.ErrorContains(t, errs[1], "one of compass, straightedge, intersect, invoke")
	for _, err := range errs {
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, ErrCodeBuildFailed, loadErr.Code)
		assert.True(t, loadErr.Pos.IsValid(), "authoring errors carry a position")
	}
}

func TestLoadPacks_FailFastStopsEarly(t *testing.T) {
	_, errs := LoadPacks("testdata/invalid", LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadPacks_MissingDirectory(t *testing.T) {
	result, errs := LoadPacks("testdata/no-such-dir", LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)
	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadError_FormatsPosition(t *testing.T) {
	err := &LoadError{Code: ErrCodeGeneric, Message: "boom"}
	assert.Equal(t, "E001: boom", err.Error())
}
