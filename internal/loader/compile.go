package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/prop"
)

// CompileError is a single authoring error with CUE position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileDef parses one proposition struct into a definition. The CUE
// value is the proposition body; id is its struct label, e.g. "II.1".
//
// Packs author constructions only: a loaded definition proves its
// result segments equal via the default conclusion. The built-in
// propositions with bespoke conclusion reasoning stay in Go.
func CompileDef(id string, v cue.Value) (*prop.Def, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &prop.Def{ID: id}

	titleVal := v.LookupPath(cue.ParsePath("title"))
	if !titleVal.Exists() {
		return nil, &CompileError{Field: "title", Message: "title is required", Pos: v.Pos()}
	}
	title, err := titleVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Title = title

	if def.GivenPoints, err = parseGivenPoints(v); err != nil {
		return nil, err
	}
	if len(def.GivenPoints) == 0 {
		return nil, &CompileError{
			Field:   "given.points",
			Message: "at least one given point is required",
			Pos:     v.Pos(),
		}
	}
	if def.GivenSegments, err = parseGivenSegments(v); err != nil {
		return nil, err
	}
	if def.GivenFacts, err = parseGivenFacts(v); err != nil {
		return nil, err
	}

	if def.Steps, err = parseSteps(v); err != nil {
		return nil, err
	}
	if len(def.Steps) == 0 {
		return nil, &CompileError{
			Field:   "steps",
			Message: "at least one step is required",
			Pos:     v.Pos(),
		}
	}

	if def.ResultSegments, err = parseStringList(v, "results"); err != nil {
		return nil, err
	}
	if def.OutputPoints, err = parseStringList(v, "outputs"); err != nil {
		return nil, err
	}
	if def.Draggable, err = parseStringList(v, "draggable"); err != nil {
		return nil, err
	}

	extendVal := v.LookupPath(cue.ParsePath("extend_segments"))
	if extendVal.Exists() {
		if def.ExtendSegments, err = extendVal.Bool(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	return def, nil
}

func parseGivenPoints(v cue.Value) ([]prop.GivenPoint, error) {
	listVal := v.LookupPath(cue.ParsePath("given.points"))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var points []prop.GivenPoint
	for iter.Next() {
		pv := iter.Value()
		var gp prop.GivenPoint
		if gp.X, err = pv.LookupPath(cue.ParsePath("x")).Float64(); err != nil {
			return nil, formatCUEError(err)
		}
		if gp.Y, err = pv.LookupPath(cue.ParsePath("y")).Float64(); err != nil {
			return nil, formatCUEError(err)
		}
		labelVal := pv.LookupPath(cue.ParsePath("label"))
		if labelVal.Exists() {
			if gp.Label, err = labelVal.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		points = append(points, gp)
	}
	return points, nil
}

func parseGivenSegments(v cue.Value) ([]prop.GivenSegment, error) {
	listVal := v.LookupPath(cue.ParsePath("given.segments"))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var segments []prop.GivenSegment
	for iter.Next() {
		sv := iter.Value()
		var gs prop.GivenSegment
		if gs.FromID, err = sv.LookupPath(cue.ParsePath("from")).String(); err != nil {
			return nil, formatCUEError(err)
		}
		if gs.ToID, err = sv.LookupPath(cue.ParsePath("to")).String(); err != nil {
			return nil, formatCUEError(err)
		}
		segments = append(segments, gs)
	}
	return segments, nil
}

// parseGivenFacts reads given equalities as pairs of distance keys:
//
//	facts: [{equal: [["p2", "p3"], ["p1", "p2"]]}]
func parseGivenFacts(v cue.Value) ([]prop.GivenFact, error) {
	listVal := v.LookupPath(cue.ParsePath("given.facts"))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []prop.GivenFact
	for iter.Next() {
		fv := iter.Value()
		pairs, err := parseDistancePairs(fv.LookupPath(cue.ParsePath("equal")))
		if err != nil {
			return nil, err
		}
		if len(pairs) != 2 {
			return nil, &CompileError{
				Field:   "given.facts",
				Message: "equal must name exactly two distances",
				Pos:     fv.Pos(),
			}
		}
		var gf prop.GivenFact
		gf.Left = pairs[0]
		gf.Right = pairs[1]
		stmtVal := fv.LookupPath(cue.ParsePath("statement"))
		if stmtVal.Exists() {
			if gf.Statement, err = stmtVal.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		out = append(out, gf)
	}
	return out, nil
}

func parseDistancePairs(v cue.Value) ([]facts.DistanceKey, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "given.facts", Message: "equal is required", Pos: v.Pos()}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var keys []facts.DistanceKey
	for iter.Next() {
		ids, err := stringList(iter.Value())
		if err != nil {
			return nil, err
		}
		if len(ids) != 2 {
			return nil, &CompileError{
				Field:   "given.facts",
				Message: "a distance names two point ids",
				Pos:     iter.Value().Pos(),
			}
		}
		keys = append(keys, facts.Distance(ids[0], ids[1]))
	}
	return keys, nil
}

// parseSteps reads the step list. Each step carries exactly one tool
// struct (compass, straightedge, intersect or invoke) plus optional
// cite and say strings.
func parseSteps(v cue.Value) ([]prop.Step, error) {
	listVal := v.LookupPath(cue.ParsePath("steps"))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var steps []prop.Step
	for i := 0; iter.Next(); i++ {
		step, err := parseStep(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(v cue.Value, idx int) (prop.Step, error) {
	var step prop.Step
	var err error

	citeVal := v.LookupPath(cue.ParsePath("cite"))
	if citeVal.Exists() {
		if step.CitationKey, err = citeVal.String(); err != nil {
			return step, formatCUEError(err)
		}
	}
	sayVal := v.LookupPath(cue.ParsePath("say"))
	if sayVal.Exists() {
		if step.Instruction, err = sayVal.String(); err != nil {
			return step, formatCUEError(err)
		}
	}

	if cv := v.LookupPath(cue.ParsePath("compass")); cv.Exists() {
		var a prop.Compass
		if a.CenterID, err = cv.LookupPath(cue.ParsePath("center")).String(); err != nil {
			return step, formatCUEError(err)
		}
		if a.RadiusPointID, err = cv.LookupPath(cue.ParsePath("radius_point")).String(); err != nil {
			return step, formatCUEError(err)
		}
		step.Action = a
		return step, nil
	}

	if sv := v.LookupPath(cue.ParsePath("straightedge")); sv.Exists() {
		var a prop.Straightedge
		if a.FromID, err = sv.LookupPath(cue.ParsePath("from")).String(); err != nil {
			return step, formatCUEError(err)
		}
		if a.ToID, err = sv.LookupPath(cue.ParsePath("to")).String(); err != nil {
			return step, formatCUEError(err)
		}
		step.Action = a
		return step, nil
	}

	if iv := v.LookupPath(cue.ParsePath("intersect")); iv.Exists() {
		var a prop.Intersection
		of, err := stringList(iv.LookupPath(cue.ParsePath("of")))
		if err != nil {
			return step, err
		}
		if len(of) != 2 {
			return step, &CompileError{
				Field:   fmt.Sprintf("steps[%d].intersect.of", idx),
				Message: "of names exactly two parent elements",
				Pos:     iv.Pos(),
			}
		}
		a.OfA, a.OfB = of[0], of[1]
		if bv := iv.LookupPath(cue.ParsePath("beyond")); bv.Exists() {
			if a.BeyondID, err = bv.String(); err != nil {
				return step, formatCUEError(err)
			}
		}
		if lv := iv.LookupPath(cue.ParsePath("label")); lv.Exists() {
			if a.Label, err = lv.String(); err != nil {
				return step, formatCUEError(err)
			}
		}
		step.Action = a
		return step, nil
	}

	if mv := v.LookupPath(cue.ParsePath("invoke")); mv.Exists() {
		var a prop.Macro
		if a.PropID, err = mv.LookupPath(cue.ParsePath("prop")).String(); err != nil {
			return step, formatCUEError(err)
		}
		if a.InputPointIDs, err = stringList(mv.LookupPath(cue.ParsePath("inputs"))); err != nil {
			return step, err
		}
		if len(a.InputPointIDs) == 0 {
			return step, &CompileError{
				Field:   fmt.Sprintf("steps[%d].invoke.inputs", idx),
				Message: "at least one input point is required",
				Pos:     mv.Pos(),
			}
		}
		if olv := mv.LookupPath(cue.ParsePath("output_labels")); olv.Exists() {
			if a.OutputLabels, err = stringList(olv); err != nil {
				return step, err
			}
		}
		step.Action = a
		return step, nil
	}

	return step, &CompileError{
		Field:   fmt.Sprintf("steps[%d]", idx),
		Message: "step needs one of compass, straightedge, intersect, invoke",
		Pos:     v.Pos(),
	}
}

func parseStringList(v cue.Value, path string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return nil, nil
	}
	return stringList(listVal)
}

func stringList(v cue.Value) ([]string, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
