package engine

import (
	"fmt"

	"github.com/porism/porism/internal/act"
	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/geom"
	"github.com/porism/porism/internal/prop"
)

// Result is the outcome of one full replay: the derived construction and
// everything read-only consumers need. StepsCompleted < TotalSteps means
// the construction is broken under the current given positions; that is
// a fact about geometry, not an error.
type Result struct {
	State          construction.State
	Candidates     []construction.Candidate
	Facts          []facts.Fact
	Ghosts         []GhostLayer
	StepsCompleted int
	TotalSteps     int
	Complete       bool
	Conclusion     string
}

// Replay rebuilds the entire derived state from scratch: given elements
// at their (possibly overridden) positions, given facts, every step's
// expected action re-executed with the same candidate-selection
// convention used live, and finally the post-completion action log of
// structural references. Every frame of a drag is one call to Replay;
// determinism and stable labeling are what keep labels and colors from
// jittering mid-drag.
func Replay(
	reg *prop.Registry,
	def *prop.Def,
	givenPositions map[string]geom.Pt,
	extraActions []act.Action,
) Result {
	r := runner{state: construction.NewState()}
	store := facts.NewStore()
	store.Describe = r.describer()

	for i, gp := range def.GivenPoints {
		x, y := gp.X, gp.Y
		if pos, ok := givenPositions[fmt.Sprintf("p%d", i+1)]; ok {
			x, y = pos.X, pos.Y
		}
		next, _ := r.state.AddPoint(x, y, construction.PointGiven, gp.Label)
		r.state = next
	}
	for _, gs := range def.GivenSegments {
		r.addSegment(gs.FromID, gs.ToID, construction.SegmentGiven, def.ExtendSegments)
	}
	for _, gf := range def.GivenFacts {
		statement := gf.Statement
		if statement == "" {
			statement = keyLabel(r.state, gf.Left) + " = " + keyLabel(r.state, gf.Right)
		}
		store.AddFact(gf.Left, gf.Right, facts.Given{}, statement, facts.AtGiven)
	}

	var ghosts []GhostLayer
	completed := 0

	for stepIdx, step := range def.Steps {
		switch a := step.Action.(type) {
		case prop.Compass:
			if _, ok := r.addCircle(a.CenterID, a.RadiusPointID, def.ExtendSegments); !ok {
				r.state = r.state.SkipColor()
				continue
			}
			completed++

		case prop.Straightedge:
			if _, ok := r.addSegment(a.FromID, a.ToID, "", def.ExtendSegments); !ok {
				r.state = r.state.SkipColor()
				continue
			}
			completed++

		case prop.Intersection:
			cand, ok := r.selectCandidate(a.OfA, a.OfB, a.BeyondID)
			if !ok {
				// The expected intersection no longer exists under
				// these given positions. Burn the label so every
				// later element keeps its identity.
				r.state = r.state.SkipPointLabel(a.Label)
				continue
			}
			r.markCandidate(cand, a.Label, store, stepIdx)
			completed++

		case prop.Macro:
			run, ok := r.runMacro(reg, a.PropID, a.InputPointIDs, a.OutputLabels, store, stepIdx, 1)
			if !ok {
				continue
			}
			ghosts = append(ghosts, ghostsOf(run, stepIdx)...)
			if run.complete {
				completed++
			}
		}
	}

	res := Result{
		StepsCompleted: completed,
		TotalSteps:     len(def.Steps),
	}
	if completed == len(def.Steps) {
		_, res.Conclusion = def.Conclude(prop.Scope{
			State:   r.state,
			Store:   store,
			Resolve: func(id string) string { return id },
		})
		res.Complete = true
	}

	// The post-completion log replays by structural reference; a log
	// entry whose referent vanished under perturbation skips, with the
	// same label-stability bookkeeping as a missing step.
	for _, action := range extraActions {
		switch a := action.(type) {
		case act.DrawCircle:
			if _, ok := r.addCircle(a.CenterID, a.RadiusPointID, def.ExtendSegments); !ok {
				r.state = r.state.SkipColor()
			}
		case act.DrawSegment:
			if _, ok := r.addSegment(a.FromID, a.ToID, "", def.ExtendSegments); !ok {
				r.state = r.state.SkipColor()
			}
		case act.MarkIntersection:
			cand, ok := r.resolveCandidate(a.OfA, a.OfB, a.Which)
			if !ok {
				r.state = r.state.SkipPointLabel(a.Label)
				continue
			}
			r.markCandidate(cand, a.Label, store, facts.AtConclusion)
		case act.InvokeMacro:
			run, ok := r.runMacro(reg, a.PropID, a.InputPointIDs, nil, store, facts.AtConclusion, 1)
			if ok {
				ghosts = append(ghosts, ghostsOf(run, len(def.Steps))...)
			}
		}
	}

	res.State = r.state
	res.Candidates = r.cands
	res.Facts = store.Facts()
	res.Ghosts = ghosts
	return res
}
