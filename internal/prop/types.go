package prop

import (
	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/facts"
)

// Tool names the instrument a step requires.
type Tool string

const (
	ToolCompass      Tool = "compass"
	ToolStraightedge Tool = "straightedge"
	ToolMarker       Tool = "marker"
	ToolMacro        Tool = "macro"
)

// ExpectedAction is the closed sum of step expectations. Exactly one of
// the four variants below sits behind it.
type ExpectedAction interface {
	Tool() Tool
	expectedAction()
}

// Compass expects a circle centered at CenterID through RadiusPointID.
type Compass struct {
	CenterID      string
	RadiusPointID string
}

func (Compass) Tool() Tool      { return ToolCompass }
func (Compass) expectedAction() {}

// Straightedge expects a segment joining two points; orientation does not
// matter.
type Straightedge struct {
	FromID string
	ToID   string
}

func (Straightedge) Tool() Tool      { return ToolStraightedge }
func (Straightedge) expectedAction() {}

// Intersection expects marking a candidate whose unordered parent pair is
// {OfA, OfB}. When BeyondID is set, the candidate must additionally lie
// beyond that point on the parent segment's ray; this picks a specific
// one of two symmetric intersections. Label optionally names the point.
type Intersection struct {
	OfA      string
	OfB      string
	BeyondID string
	Label    string
}

func (Intersection) Tool() Tool      { return ToolMarker }
func (Intersection) expectedAction() {}

// Macro expects invoking proposition PropID with the listed points as its
// givens. OutputLabels, when present, name the inner proposition's output
// points in order.
type Macro struct {
	PropID        string
	InputPointIDs []string
	OutputLabels  []string
}

func (Macro) Tool() Tool      { return ToolMacro }
func (Macro) expectedAction() {}

// Step is one expected action with its presentation metadata.
type Step struct {
	Action ExpectedAction
	// CitationKey is the display citation for the step itself, e.g.
	// "Post. 1" for drawing a line, "Post. 3" for a circle.
	CitationKey string
	// Instruction is the text shown to the learner for this step.
	Instruction string
}

// GivenPoint is a point supplied as hypothesis. Label may be empty to
// draw from the alphabet sequence.
type GivenPoint struct {
	X, Y  float64
	Label string
}

// GivenSegment joins two given points, referenced by their deterministic
// ids.
type GivenSegment struct {
	FromID string
	ToID   string
}

// GivenFact is an equality supplied as hypothesis.
type GivenFact struct {
	Left      facts.Key
	Right     facts.Key
	Statement string
}

// Scope is what a conclusion hook gets to look at: the finished
// construction, the fact ledger, and an id resolver. Resolve maps the
// definition's local ids to the ids of the substrate construction; in a
// live session it is the identity, inside a macro it follows the macro's
// point mapping.
type Scope struct {
	State   construction.State
	Store   *facts.Store
	Resolve func(localID string) string
}

// Dist is a convenience for hooks: the canonical distance key between two
// resolved local ids.
func (sc Scope) Dist(localA, localB string) facts.DistanceKey {
	return facts.Distance(sc.Resolve(localA), sc.Resolve(localB))
}

// Label returns the display label of a resolved local point id.
func (sc Scope) Label(localID string) string {
	return sc.State.LabelOf(sc.Resolve(localID))
}

// ConcludeFunc inspects the finished construction and ledger, emits the
// theorem's final fact(s) into the store at facts.AtConclusion, and
// returns them with the conclusion statement text. A hook that finds its
// premises missing (degenerate replay) returns nothing.
type ConcludeFunc func(sc Scope) ([]facts.Fact, string)

// Def is one authored proposition.
type Def struct {
	ID    string
	Title string

	GivenPoints   []GivenPoint
	GivenSegments []GivenSegment
	GivenFacts    []GivenFact

	Steps []Step

	// ResultSegments lists, by local id, the segments whose proven
	// equality is the theorem's deliverable. Macro execution keeps
	// these primary and exports their equalities to the caller.
	ResultSegments []string

	// OutputPoints lists, by local id, the points the construction
	// delivers to a caller. A macro step's OutputLabels name these.
	OutputPoints []string

	// Draggable lists the given point ids the interaction layer may
	// drag; each drag frame replays the whole construction.
	Draggable []string

	// ExtendSegments opts this proposition's candidate discovery into
	// extended-line intersection math.
	ExtendSegments bool

	// Conclusion derives the final facts once every step is done. Nil
	// means DefaultConclusion over ResultSegments.
	Conclusion ConcludeFunc
}

// Conclude runs the definition's conclusion hook, falling back to the
// default when none is authored.
func (d *Def) Conclude(sc Scope) ([]facts.Fact, string) {
	if d.Conclusion != nil {
		return d.Conclusion(sc)
	}
	return DefaultConclusion(d, sc)
}
