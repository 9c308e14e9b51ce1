package engine

import (
	"fmt"

	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/prop"
)

// createdElem records one element a macro created, with the recursion
// depth it was created at.
type createdElem struct {
	id    string
	depth int
}

// macroRun is the raw outcome of executing an inner proposition.
type macroRun struct {
	// created lists every element materialized by the invocation,
	// nested macros included, in creation order.
	created []createdElem
	// outputs and results hold the outer ids of the inner definition's
	// output points and result segments; these stay primary, everything
	// else in created is scaffolding.
	outputs []string
	results []string
	// exported holds the facts added to the caller's store.
	exported []facts.Fact
	// complete is true when every inner step executed.
	complete bool
}

// runMacro replays an inner proposition's step sequence against the
// runner's construction as substrate. The inner given points map onto
// inputIDs in order; inner given segments map onto existing outer
// segments between the mapped endpoints, or are materialized as
// scaffolding. Facts derived inside stay in a store private to the
// invocation; only the equalities among the inner proposition's result
// segments cross back into callerStore, cited as proposition-derived at
// callerStep.
//
// An unknown proposition id, or an input list that does not fit the
// inner givens, is a no-op: false, nothing changed.
func (r *runner) runMacro(
	reg *prop.Registry,
	propID string,
	inputIDs []string,
	outputLabels []string,
	callerStore *facts.Store,
	callerStep int,
	depth int,
) (macroRun, bool) {
	def, ok := reg.Lookup(propID)
	if !ok {
		return macroRun{}, false
	}
	if len(inputIDs) != len(def.GivenPoints) {
		return macroRun{}, false
	}
	for _, id := range inputIDs {
		if _, ok := r.state.PointByID(id); !ok {
			return macroRun{}, false
		}
	}

	idMap := make(map[string]string)
	for i := range def.GivenPoints {
		idMap[fmt.Sprintf("p%d", i+1)] = inputIDs[i]
	}

	var run macroRun
	run.complete = true

	// Inner id counters, advanced in lockstep with what the inner
	// definition's author counted. They advance even across failed
	// steps so later references stay aligned.
	nPoints := len(def.GivenPoints)
	nCircles := 0
	nSegments := 0

	for _, gs := range def.GivenSegments {
		innerID := fmt.Sprintf("s%d", nSegments+1)
		nSegments++
		from, to := idMap[gs.FromID], idMap[gs.ToID]
		if seg, ok := r.state.SegmentBetween(from, to); ok {
			idMap[innerID] = seg.ID
			continue
		}
		seg, ok := r.addSegment(from, to, construction.SegmentStraightedge, def.ExtendSegments)
		if !ok {
			run.complete = false
			continue
		}
		idMap[innerID] = seg.ID
		run.created = append(run.created, createdElem{id: seg.ID, depth: depth})
	}

	innerStore := facts.NewStore()
	innerStore.Describe = r.describer()
	for _, gf := range def.GivenFacts {
		left := translateKey(idMap, gf.Left)
		right := translateKey(idMap, gf.Right)
		innerStore.AddFact(left, right, facts.Given{},
			keyLabel(r.state, left)+" = "+keyLabel(r.state, right), facts.AtGiven)
	}

	for stepIdx, step := range def.Steps {
		switch a := step.Action.(type) {
		case prop.Compass:
			innerID := fmt.Sprintf("c%d", nCircles+1)
			nCircles++
			c, ok := r.addCircle(idMap[a.CenterID], idMap[a.RadiusPointID], def.ExtendSegments)
			if !ok {
				run.complete = false
				r.state = r.state.SkipColor()
				continue
			}
			idMap[innerID] = c.ID
			run.created = append(run.created, createdElem{id: c.ID, depth: depth})

		case prop.Straightedge:
			innerID := fmt.Sprintf("s%d", nSegments+1)
			nSegments++
			seg, ok := r.addSegment(idMap[a.FromID], idMap[a.ToID], "", def.ExtendSegments)
			if !ok {
				run.complete = false
				r.state = r.state.SkipColor()
				continue
			}
			idMap[innerID] = seg.ID
			run.created = append(run.created, createdElem{id: seg.ID, depth: depth})

		case prop.Intersection:
			innerID := fmt.Sprintf("p%d", nPoints+1)
			nPoints++
			label := outputLabel(def, innerID, outputLabels, a.Label)
			ofA, ofB := idMap[a.OfA], idMap[a.OfB]
			var cand construction.Candidate
			ok := false
			if ofA != "" && ofB != "" {
				cand, ok = r.selectCandidate(ofA, ofB, idMap[a.BeyondID])
			}
			if !ok {
				run.complete = false
				r.state = r.state.SkipPointLabel(label)
				continue
			}
			p := r.markCandidate(cand, label, innerStore, stepIdx)
			idMap[innerID] = p.ID
			run.created = append(run.created, createdElem{id: p.ID, depth: depth})

		case prop.Macro:
			inputs := make([]string, len(a.InputPointIDs))
			broken := false
			for i, localID := range a.InputPointIDs {
				inputs[i] = idMap[localID]
				if inputs[i] == "" {
					broken = true
				}
			}
			var nested macroRun
			ok := false
			if !broken {
				nested, ok = r.runMacro(reg, a.PropID, inputs, a.OutputLabels, innerStore, stepIdx, depth+1)
			}
			if !ok {
				run.complete = false
				continue
			}
			if !nested.complete {
				run.complete = false
			}
			// Register what the nested call created in this
			// definition's id space; order matches because id
			// assignment is a pure function of creation order.
			for _, ce := range nested.created {
				var innerID string
				switch ce.id[0] {
				case 'p':
					innerID = fmt.Sprintf("p%d", nPoints+1)
					nPoints++
				case 'c':
					innerID = fmt.Sprintf("c%d", nCircles+1)
					nCircles++
				case 's':
					innerID = fmt.Sprintf("s%d", nSegments+1)
					nSegments++
				}
				idMap[innerID] = ce.id
				run.created = append(run.created, ce)
			}
		}
	}

	resolve := func(localID string) string {
		if outer, ok := idMap[localID]; ok {
			return outer
		}
		return localID
	}

	if run.complete {
		def.Conclude(prop.Scope{State: r.state, Store: innerStore, Resolve: resolve})
	}

	for _, localID := range def.OutputPoints {
		run.outputs = append(run.outputs, idMap[localID])
	}
	for _, localID := range def.ResultSegments {
		run.results = append(run.results, idMap[localID])
	}

	// Export: every equality among the inner result segments that the
	// inner run proved becomes one proposition-derived fact for the
	// caller. The macro is a single atomic step from the caller's view,
	// so everything lands at callerStep.
	for i := 0; i < len(run.results); i++ {
		for j := i + 1; j < len(run.results); j++ {
			segA, okA := r.state.SegmentByID(run.results[i])
			segB, okB := r.state.SegmentByID(run.results[j])
			if !okA || !okB {
				continue
			}
			keyA := facts.Distance(segA.FromID, segA.ToID)
			keyB := facts.Distance(segB.FromID, segB.ToID)
			if !innerStore.QueryEquality(keyA, keyB) {
				continue
			}
			run.exported = append(run.exported, callerStore.AddFact(
				keyA, keyB,
				facts.Proposition{PropID: def.ID},
				keyLabel(r.state, keyA)+" = "+keyLabel(r.state, keyB),
				callerStep,
			)...)
		}
	}

	return run, true
}

// outputLabel picks the display label for an inner intersection point:
// the caller's output label when the point is one of the definition's
// outputs, otherwise the step's own label.
func outputLabel(def *prop.Def, innerID string, outputLabels []string, stepLabel string) string {
	for i, op := range def.OutputPoints {
		if op == innerID && i < len(outputLabels) {
			return outputLabels[i]
		}
	}
	return stepLabel
}

// ghostsOf partitions a macro run into its ghost layers: every created
// element that is neither an output point nor a result segment, tagged
// with its creation ordinal as the reveal order.
func ghostsOf(run macroRun, atStep int) []GhostLayer {
	primary := make(map[string]bool)
	for _, id := range run.outputs {
		primary[id] = true
	}
	for _, id := range run.results {
		primary[id] = true
	}
	var out []GhostLayer
	for i, ce := range run.created {
		if primary[ce.id] {
			continue
		}
		out = append(out, GhostLayer{ElementID: ce.id, Depth: ce.depth, AtStep: atStep, Reveal: i})
	}
	return out
}

func translateKey(idMap map[string]string, k facts.Key) facts.Key {
	switch v := k.(type) {
	case facts.DistanceKey:
		return facts.Distance(idMap[v.A], idMap[v.B])
	case facts.AngleKey:
		return facts.Angle(idMap[v.Vertex], idMap[v.Ray1], idMap[v.Ray2])
	}
	return k
}
