package harness

import (
	"fmt"

	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/engine"
	"github.com/porism/porism/internal/prop"
)

// Result holds the terminal session of a scenario run.
type Result struct {
	Session *engine.Session
}

// Run opens a session for the scenario's proposition and drives it
// through the action list. An action the session refuses is an error
// unless the step is marked rejected, in which case refusal is the
// expectation and acceptance is the error.
func Run(reg *prop.Registry, scenario *Scenario) (*Result, error) {
	def, ok := reg.Lookup(scenario.Prop)
	if !ok {
		return nil, fmt.Errorf("scenario %s: unknown proposition %q", scenario.Name, scenario.Prop)
	}
	sess := engine.NewSession(def, reg)

	for i, step := range scenario.Actions {
		accepted, err := applyStep(sess, step)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: actions[%d]: %w", scenario.Name, i, err)
		}
		if accepted == step.Rejected {
			verb := "rejected"
			if step.Rejected {
				verb = "accepted"
			}
			return nil, fmt.Errorf("scenario %s: actions[%d]: session %s %s", scenario.Name, i, verb, describeStep(step))
		}
	}

	return &Result{Session: sess}, nil
}

func applyStep(sess *engine.Session, step ActionStep) (bool, error) {
	switch {
	case step.Circle != nil:
		return sess.CommitCircle(step.Circle.Center, step.Circle.RadiusPoint), nil
	case step.Segment != nil:
		return sess.CommitSegment(step.Segment.From, step.Segment.To), nil
	case step.Mark != nil:
		cand, ok := findCandidate(sess, step.Mark)
		if !ok {
			// No live candidate for the pair. For a rejected step that
			// is the expected shape of refusal.
			return false, nil
		}
		return sess.MarkIntersection(cand), nil
	case step.Invoke != nil:
		return sess.CommitMacro(step.Invoke.Prop, step.Invoke.Inputs), nil
	case step.Rewind != nil:
		return sess.RewindToStep(step.Rewind.To), nil
	}
	return false, fmt.Errorf("empty action step")
}

// findCandidate picks the live candidate a mark action refers to, using
// the same convention the engine applies to expected intersections:
// directional choice when beyond is set, otherwise highest y.
func findCandidate(sess *engine.Session, mark *MarkAction) (construction.Candidate, bool) {
	var best construction.Candidate
	found := false
	for _, c := range sess.Candidates() {
		if !c.SamePair(mark.Of[0], mark.Of[1]) {
			continue
		}
		if mark.Beyond != "" {
			if construction.IsCandidateBeyondPoint(sess.State(), c, mark.Beyond) {
				return c, true
			}
			continue
		}
		if !found || c.Y > best.Y {
			best, found = c, true
		}
	}
	return best, found
}

func describeStep(step ActionStep) string {
	switch {
	case step.Circle != nil:
		return fmt.Sprintf("circle(%s, %s)", step.Circle.Center, step.Circle.RadiusPoint)
	case step.Segment != nil:
		return fmt.Sprintf("segment(%s, %s)", step.Segment.From, step.Segment.To)
	case step.Mark != nil:
		return fmt.Sprintf("mark(%s, %s)", step.Mark.Of[0], step.Mark.Of[1])
	case step.Invoke != nil:
		return fmt.Sprintf("invoke(%s)", step.Invoke.Prop)
	case step.Rewind != nil:
		return fmt.Sprintf("rewind(%d)", step.Rewind.To)
	}
	return "empty step"
}
