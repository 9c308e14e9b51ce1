package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test: a proposition, the actions a
// student would perform, and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Prop is the proposition id to open a session for.
	Prop string `yaml:"prop"`

	// Actions is the ordered action list driving the session.
	Actions []ActionStep `yaml:"actions"`

	// Expect specifies the expected terminal state.
	Expect ExpectClause `yaml:"expect"`

	// Assertions validate the final construction and fact ledger.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ActionStep is one committed action. Exactly one field is set.
type ActionStep struct {
	Circle  *CircleAction  `yaml:"circle,omitempty"`
	Segment *SegmentAction `yaml:"segment,omitempty"`
	Mark    *MarkAction    `yaml:"mark,omitempty"`
	Invoke  *InvokeAction  `yaml:"invoke,omitempty"`
	Rewind  *RewindAction  `yaml:"rewind,omitempty"`

	// Rejected inverts the check: the session must refuse this action
	// and stay unchanged. Used to pin down the state machine's no-op
	// behavior in scenario form.
	Rejected bool `yaml:"rejected,omitempty"`
}

// CircleAction commits a compass action.
type CircleAction struct {
	Center      string `yaml:"center"`
	RadiusPoint string `yaml:"radius_point"`
}

// SegmentAction commits a straightedge action.
type SegmentAction struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// MarkAction marks an intersection candidate of the named parent pair.
// When Beyond is set the candidate past that point is chosen, otherwise
// the highest-y candidate, matching the engine's own selection.
type MarkAction struct {
	Of     []string `yaml:"of"`
	Beyond string   `yaml:"beyond,omitempty"`
}

// InvokeAction invokes a proven proposition as a macro.
type InvokeAction struct {
	Prop   string   `yaml:"prop"`
	Inputs []string `yaml:"inputs"`
}

// RewindAction rewinds the session to the given completed-step count.
type RewindAction struct {
	To int `yaml:"to"`
}

// ExpectClause specifies the expected terminal state of the session.
type ExpectClause struct {
	Complete   bool   `yaml:"complete"`
	Conclusion string `yaml:"conclusion,omitempty"`
	StepIndex  *int   `yaml:"step_index,omitempty"`
}

// Assertion validates the final construction or ledger.
type Assertion struct {
	// Type is one of point_at, label, equal, element_count,
	// ghost_count.
	Type string `yaml:"type"`

	// Point is the point id (point_at, label).
	Point string `yaml:"point,omitempty"`

	// X, Y, Within give the expected position and tolerance (point_at).
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Within float64 `yaml:"within,omitempty"`

	// Label is the expected display label (label).
	Label string `yaml:"label,omitempty"`

	// Left and Right each name a distance by two point ids (equal).
	Left  []string `yaml:"left,omitempty"`
	Right []string `yaml:"right,omitempty"`

	// Points, Circles, Segments are expected element counts
	// (element_count).
	Points   int `yaml:"points,omitempty"`
	Circles  int `yaml:"circles,omitempty"`
	Segments int `yaml:"segments,omitempty"`

	// Count is the expected ghost count (ghost_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPointAt      = "point_at"
	AssertLabel        = "label"
	AssertEqual        = "equal"
	AssertElementCount = "element_count"
	AssertGhostCount   = "ghost_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos surface instead of silently passing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml scenario under a directory, sorted by
// file name for deterministic test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".yaml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var scenarios []*Scenario
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Prop == "" {
		return fmt.Errorf("prop is required")
	}
	if len(s.Actions) == 0 {
		return fmt.Errorf("actions list is required and must be non-empty")
	}
	for i, a := range s.Actions {
		set := 0
		for _, present := range []bool{
			a.Circle != nil, a.Segment != nil, a.Mark != nil, a.Invoke != nil, a.Rewind != nil,
		} {
			if present {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("actions[%d]: exactly one of circle, segment, mark, invoke, rewind", i)
		}
		if a.Mark != nil && len(a.Mark.Of) != 2 {
			return fmt.Errorf("actions[%d]: mark.of names exactly two parents", i)
		}
		if a.Rewind != nil && a.Rejected {
			return fmt.Errorf("actions[%d]: rewind cannot be marked rejected", i)
		}
	}
	for i, as := range s.Assertions {
		switch as.Type {
		case AssertPointAt, AssertLabel, AssertEqual, AssertElementCount, AssertGhostCount:
		default:
			return fmt.Errorf("assertions[%d]: unknown type %q", i, as.Type)
		}
		if as.Type == AssertEqual && (len(as.Left) != 2 || len(as.Right) != 2) {
			return fmt.Errorf("assertions[%d]: equal names two distances of two point ids each", i)
		}
	}
	return nil
}
