package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/porism/porism/internal/engine"
	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/geom"
	"github.com/porism/porism/internal/prop"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// Check validates the scenario's expect clause and assertions against
// the run, and, when the proof completed, verifies that deterministic
// replay of the session reproduces the same construction. All failures
// are collected.
func Check(reg *prop.Registry, scenario *Scenario, result *Result) []error {
	var errs []error
	sess := result.Session

	if sess.Complete() != scenario.Expect.Complete {
		errs = append(errs, &AssertionError{
			Type:     "expect.complete",
			Expected: fmt.Sprintf("complete=%v", scenario.Expect.Complete),
			Actual:   fmt.Sprintf("complete=%v", sess.Complete()),
		})
	}
	if scenario.Expect.Conclusion != "" && sess.Conclusion() != scenario.Expect.Conclusion {
		errs = append(errs, &AssertionError{
			Type:     "expect.conclusion",
			Expected: scenario.Expect.Conclusion,
			Actual:   fmt.Sprintf("%q", sess.Conclusion()),
		})
	}
	if scenario.Expect.StepIndex != nil && sess.StepIndex() != *scenario.Expect.StepIndex {
		errs = append(errs, &AssertionError{
			Type:     "expect.step_index",
			Expected: fmt.Sprintf("%d", *scenario.Expect.StepIndex),
			Actual:   fmt.Sprintf("%d", sess.StepIndex()),
		})
	}

	for i, a := range scenario.Assertions {
		if err := checkAssertion(sess, a); err != nil {
			errs = append(errs, fmt.Errorf("assertions[%d]: %w", i, err))
		}
	}

	if sess.Complete() {
		if err := checkReplayParity(reg, scenario, sess); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func checkAssertion(sess *engine.Session, a Assertion) error {
	switch a.Type {
	case AssertPointAt:
		p, ok := sess.State().PointByID(a.Point)
		if !ok {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("point %s exists", a.Point),
				Actual:   "no such point",
			}
		}
		within := a.Within
		if within == 0 {
			within = geom.Tol
		}
		if p.Pos().Dist(geom.Pt{X: a.X, Y: a.Y}) > within {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s within %g of (%g, %g)", a.Point, within, a.X, a.Y),
				Actual:   fmt.Sprintf("(%g, %g)", p.X, p.Y),
			}
		}

	case AssertLabel:
		p, ok := sess.State().PointByID(a.Point)
		if !ok {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("point %s exists", a.Point),
				Actual:   "no such point",
			}
		}
		if p.Label != a.Label {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s labeled %q", a.Point, a.Label),
				Actual:   fmt.Sprintf("%q", p.Label),
			}
		}

	case AssertEqual:
		left := facts.Distance(a.Left[0], a.Left[1])
		right := facts.Distance(a.Right[0], a.Right[1])
		if !sess.Store().QueryEquality(left, right) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s = %s provable", left, right),
				Actual:   "not provably equal",
			}
		}

	case AssertElementCount:
		got := fmt.Sprintf("%d points, %d circles, %d segments",
			len(sess.State().Points()), len(sess.State().Circles()), len(sess.State().Segments()))
		want := fmt.Sprintf("%d points, %d circles, %d segments", a.Points, a.Circles, a.Segments)
		if got != want {
			return &AssertionError{Type: a.Type, Expected: want, Actual: got}
		}

	case AssertGhostCount:
		if len(sess.Ghosts()) != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d ghosts", a.Count),
				Actual:   fmt.Sprintf("%d ghosts", len(sess.Ghosts())),
			}
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// checkReplayParity rebuilds the construction through Replay and
// demands the identical element sequence the live session produced.
func checkReplayParity(reg *prop.Registry, scenario *Scenario, sess *engine.Session) error {
	def, ok := reg.Lookup(scenario.Prop)
	if !ok {
		return fmt.Errorf("replay parity: unknown proposition %q", scenario.Prop)
	}
	res := engine.Replay(reg, def, sess.GivenPositions(), sess.ExtraLog())

	if !res.Complete {
		return &AssertionError{
			Type:     "replay_parity",
			Expected: "replay completes",
			Actual:   fmt.Sprintf("replay completed %d/%d steps", res.StepsCompleted, res.TotalSteps),
		}
	}
	if !reflect.DeepEqual(sess.State().Points(), res.State.Points()) ||
		!reflect.DeepEqual(sess.State().Circles(), res.State.Circles()) ||
		!reflect.DeepEqual(sess.State().Segments(), res.State.Segments()) {
		return &AssertionError{
			Type:     "replay_parity",
			Expected: "replayed elements identical to live session",
			Actual:   "element mismatch",
		}
	}
	return nil
}
