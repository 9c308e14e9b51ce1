package harness

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/prop"
)

// Snapshot renders the terminal session as a stable text trace:
// elements in creation order, the fact ledger, and the conclusion.
// Coordinates are printed with six decimals, which is stable across
// replays while staying readable in diffs.
func Snapshot(scenario *Scenario, result *Result) []byte {
	sess := result.Session
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&buf, "prop: %s\n", scenario.Prop)
	fmt.Fprintf(&buf, "complete: %v\n", sess.Complete())
	if sess.Conclusion() != "" {
		fmt.Fprintf(&buf, "conclusion: %s\n", sess.Conclusion())
	}

	state := sess.State()
	buf.WriteString("points:\n")
	for _, p := range state.Points() {
		fmt.Fprintf(&buf, "  %s %s (%s, %s) %s\n", p.ID, p.Label, coord(p.X), coord(p.Y), p.Origin)
	}
	if circles := state.Circles(); len(circles) > 0 {
		buf.WriteString("circles:\n")
		for _, c := range circles {
			fmt.Fprintf(&buf, "  %s center=%s through=%s\n", c.ID, c.CenterID, c.RadiusPointID)
		}
	}
	if segments := state.Segments(); len(segments) > 0 {
		buf.WriteString("segments:\n")
		for _, s := range segments {
			fmt.Fprintf(&buf, "  %s %s-%s %s\n", s.ID, s.FromID, s.ToID, s.Origin)
		}
	}
	if ghosts := sess.Ghosts(); len(ghosts) > 0 {
		buf.WriteString("ghosts:\n")
		for _, g := range ghosts {
			fmt.Fprintf(&buf, "  %s depth=%d step=%d reveal=%d\n", g.ElementID, g.Depth, g.AtStep, g.Reveal)
		}
	}
	if fs := sess.Facts(); len(fs) > 0 {
		buf.WriteString("facts:\n")
		for _, f := range fs {
			fmt.Fprintf(&buf, "  [%s] %s @%s\n", f.Citation.Label(), f.Statement, stepRef(f.AtStep))
		}
	}

	return buf.Bytes()
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func stepRef(atStep int) string {
	switch atStep {
	case facts.AtGiven:
		return "given"
	case facts.AtConclusion:
		return "conclusion"
	}
	return strconv.Itoa(atStep)
}

// RunWithGolden executes a scenario, applies its assertions, and
// compares the trace snapshot against a golden file in testdata/golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, reg *prop.Registry, scenario *Scenario) {
	t.Helper()

	result, err := Run(reg, scenario)
	if err != nil {
		t.Fatal(err)
	}
	for _, checkErr := range Check(reg, scenario, result) {
		t.Error(checkErr)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))
}
