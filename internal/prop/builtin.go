package prop

import "github.com/porism/porism/internal/facts"

// Builtins returns a registry holding the built-in propositions:
// Elements I.1 through I.3. The step sequences reference elements by the
// deterministic ids the construction will assign, counted through every
// element each macro invocation creates.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(PropI1())
	r.Register(PropI2())
	r.Register(PropI3())
	return r
}

// PropI1 is Elements I.1: on a given segment AB, construct an
// equilateral triangle.
//
// Id plan: givens p1 (A), p2 (B), s1 (AB); then c1, c2, p3 (C), s2 (AC),
// s3 (BC).
func PropI1() *Def {
	return &Def{
		ID:    "I.1",
		Title: "To construct an equilateral triangle on a given segment.",
		GivenPoints: []GivenPoint{
			{X: 0, Y: 0},
			{X: 1, Y: 0},
		},
		GivenSegments: []GivenSegment{
			{FromID: "p1", ToID: "p2"},
		},
		Steps: []Step{
			{
				Action:      Compass{CenterID: "p1", RadiusPointID: "p2"},
				CitationKey: "Post. 3",
				Instruction: "Draw the circle centered at A through B.",
			},
			{
				Action:      Compass{CenterID: "p2", RadiusPointID: "p1"},
				CitationKey: "Post. 3",
				Instruction: "Draw the circle centered at B through A.",
			},
			{
				Action:      Intersection{OfA: "c1", OfB: "c2"},
				CitationKey: "Def. 15",
				Instruction: "Mark the point where the two circles meet.",
			},
			{
				Action:      Straightedge{FromID: "p1", ToID: "p3"},
				CitationKey: "Post. 1",
				Instruction: "Join A to the marked point.",
			},
			{
				Action:      Straightedge{FromID: "p2", ToID: "p3"},
				CitationKey: "Post. 1",
				Instruction: "Join B to the marked point.",
			},
		},
		ResultSegments: []string{"s1", "s2", "s3"},
		OutputPoints:   []string{"p3"},
		Draggable:      []string{"p1", "p2"},
	}
}

// PropI2 is Elements I.2: at a given point A, place a segment equal to a
// given segment BC. Uses I.1 as a macro and relies on extending segments
// past their endpoints (Postulate 2), so candidate discovery runs with
// extension enabled and two steps disambiguate by "beyond".
//
// Id plan: givens p1 (A), p2 (B), p3 (C), s1 (BC); step 1 makes s2 (AB);
// the I.1 macro makes c1, c2, p4 (D), s3 (AD), s4 (BD); then c3, p5 (G),
// c4, p6 (L), s5 (AL).
func PropI2() *Def {
	return &Def{
		ID:    "I.2",
		Title: "To place at a given point a segment equal to a given segment.",
		// BC must not measure exactly 1: it would put L on the circle
		// through B and swallow the candidate the last extension step
		// needs.
		GivenPoints: []GivenPoint{
			{X: 0, Y: 0},
			{X: 1, Y: 0},
			{X: 1.9, Y: 0.8},
		},
		GivenSegments: []GivenSegment{
			{FromID: "p2", ToID: "p3"},
		},
		Steps: []Step{
			{
				Action:      Straightedge{FromID: "p1", ToID: "p2"},
				CitationKey: "Post. 1",
				Instruction: "Join A to B.",
			},
			{
				Action:      Macro{PropID: "I.1", InputPointIDs: []string{"p1", "p2"}, OutputLabels: []string{"D"}},
				CitationKey: "Prop. I.1",
				Instruction: "Construct the equilateral triangle ABD on AB.",
			},
			{
				Action:      Compass{CenterID: "p2", RadiusPointID: "p3"},
				CitationKey: "Post. 3",
				Instruction: "Draw the circle centered at B through C.",
			},
			{
				Action:      Intersection{OfA: "c3", OfB: "s4", BeyondID: "p2", Label: "G"},
				CitationKey: "Post. 2",
				Instruction: "Extend DB past B to meet the circle at G.",
			},
			{
				Action:      Compass{CenterID: "p4", RadiusPointID: "p5"},
				CitationKey: "Post. 3",
				Instruction: "Draw the circle centered at D through G.",
			},
			{
				Action:      Intersection{OfA: "c4", OfB: "s3", BeyondID: "p1", Label: "L"},
				CitationKey: "Post. 2",
				Instruction: "Extend DA past A to meet the circle at L.",
			},
			{
				Action:      Straightedge{FromID: "p1", ToID: "p6"},
				CitationKey: "Post. 2",
				Instruction: "Draw AL.",
			},
		},
		ResultSegments: []string{"s5", "s1"},
		OutputPoints:   []string{"p6"},
		Draggable:      []string{"p1", "p2", "p3"},
		ExtendSegments: true,
		Conclusion:     concludeI2,
	}
}

// concludeI2: DL = DG (circle), DA = DB (I.1), so AL = BG by subtraction;
// BG = BC (circle), so AL = BC.
func concludeI2(sc Scope) ([]facts.Fact, string) {
	dl := sc.Dist("p4", "p6")
	dg := sc.Dist("p4", "p5")
	da := sc.Dist("p1", "p4")
	db := sc.Dist("p2", "p4")
	bg := sc.Dist("p2", "p5")
	bc := sc.Dist("p2", "p3")
	if !sc.Store.QueryEquality(dl, dg) ||
		!sc.Store.QueryEquality(da, db) ||
		!sc.Store.QueryEquality(bg, bc) {
		return nil, ""
	}
	statement := sc.Label("p1") + sc.Label("p6") + " = " + sc.Label("p2") + sc.Label("p3")
	appended := sc.Store.AddFact(
		sc.Dist("p1", "p6"), bc,
		facts.CommonNotion{Number: 3},
		statement,
		facts.AtConclusion,
	)
	return appended, statement
}

// PropI3 is Elements I.3: given two unequal segments, cut off from the
// greater a segment equal to the lesser. Uses I.2 as a macro (which in
// turn uses I.1, exercising macro recursion).
//
// Id plan: givens p1 (A), p2 (B), p3 (C), p4 (C′), s1 (AB), s2 (CC′);
// the I.2 macro makes s3, c1, c2, p5, s4, s5, c3, p6, c4, p7 (L), s6;
// then c5 and p8 (E).
func PropI3() *Def {
	return &Def{
		ID:    "I.3",
		Title: "To cut off from the greater of two segments a segment equal to the lesser.",
		GivenPoints: []GivenPoint{
			{X: 0, Y: 0},
			{X: 3, Y: 0},
			{X: 4, Y: 1},
			{X: 4.6, Y: 1.8, Label: "C′"},
		},
		GivenSegments: []GivenSegment{
			{FromID: "p1", ToID: "p2"},
			{FromID: "p3", ToID: "p4"},
		},
		Steps: []Step{
			{
				Action:      Macro{PropID: "I.2", InputPointIDs: []string{"p1", "p3", "p4"}},
				CitationKey: "Prop. I.2",
				Instruction: "Place at A a segment AL equal to CC′.",
			},
			{
				Action:      Compass{CenterID: "p1", RadiusPointID: "p7"},
				CitationKey: "Post. 3",
				Instruction: "Draw the circle centered at A through L.",
			},
			{
				Action:      Intersection{OfA: "c5", OfB: "s1", Label: "E"},
				CitationKey: "Def. 15",
				Instruction: "Mark E where the circle crosses AB.",
			},
		},
		OutputPoints: []string{"p8"},
		Draggable:    []string{"p1", "p2", "p3", "p4"},
		Conclusion:   concludeI3,
	}
}

// concludeI3: AE = AL (circle) and AL = CC′ (I.2), so AE = CC′.
func concludeI3(sc Scope) ([]facts.Fact, string) {
	ae := sc.Dist("p1", "p8")
	al := sc.Dist("p1", "p7")
	cc := sc.Dist("p3", "p4")
	if !sc.Store.QueryEquality(ae, al) || !sc.Store.QueryEquality(al, cc) {
		return nil, ""
	}
	statement := sc.Label("p1") + sc.Label("p8") + " = " + sc.Label("p3") + sc.Label("p4")
	appended := sc.Store.AddFact(ae, cc, facts.CommonNotion{Number: 1}, statement, facts.AtConclusion)
	return appended, statement
}
