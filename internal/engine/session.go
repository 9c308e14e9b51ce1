package engine

import (
	"fmt"
	"slices"

	"github.com/porism/porism/internal/act"
	"github.com/porism/porism/internal/construction"
	"github.com/porism/porism/internal/facts"
	"github.com/porism/porism/internal/geom"
	"github.com/porism/porism/internal/prop"
)

// Snapshot captures everything a rewind needs to restore: the state
// value and shallow copies of the candidate, fact, and ghost lists. The
// construction is a value with copy-on-write internals, so capture is a
// reference grab, not a deep copy.
type Snapshot struct {
	State      construction.State
	Candidates []construction.Candidate
	Facts      []facts.Fact
	Ghosts     []GhostLayer
}

// Session is a live guided proof: the step-validation state machine over
// one proposition attempt. Committed actions either match the current
// expected step and advance it by exactly one, or change nothing at all.
// After completion, further commits extend the construction freely and
// are recorded in the post-completion action log.
type Session struct {
	def *prop.Def
	reg *prop.Registry

	run    runner
	store  *facts.Store
	ghosts []GhostLayer

	stepIdx   int
	stepDone  []bool
	snapshots []Snapshot

	complete   bool
	conclusion string

	extraLog []act.Action
}

// NewSession initializes a proof attempt: given elements materialized,
// given facts recorded, snapshot zero captured.
func NewSession(def *prop.Def, reg *prop.Registry) *Session {
	s := &Session{
		def:      def,
		reg:      reg,
		run:      runner{state: construction.NewState()},
		stepDone: make([]bool, len(def.Steps)),
	}
	s.store = facts.NewStore()
	s.store.Describe = s.run.describer()

	for _, gp := range def.GivenPoints {
		next, _ := s.run.state.AddPoint(gp.X, gp.Y, construction.PointGiven, gp.Label)
		s.run.state = next
	}
	for _, gs := range def.GivenSegments {
		s.run.addSegment(gs.FromID, gs.ToID, construction.SegmentGiven, def.ExtendSegments)
	}
	for _, gf := range def.GivenFacts {
		statement := gf.Statement
		if statement == "" {
			statement = keyLabel(s.run.state, gf.Left) + " = " + keyLabel(s.run.state, gf.Right)
		}
		s.store.AddFact(gf.Left, gf.Right, facts.Given{}, statement, facts.AtGiven)
	}

	s.snapshots = append(s.snapshots, s.capture())
	return s
}

// CommitCircle handles a committed compass action. Before completion it
// must match the current expected step; afterwards it extends the
// construction freely. Returns whether anything happened.
func (s *Session) CommitCircle(centerID, radiusPointID string) bool {
	if s.complete {
		if _, ok := s.run.addCircle(centerID, radiusPointID, s.def.ExtendSegments); !ok {
			return false
		}
		s.extraLog = append(s.extraLog, act.DrawCircle{CenterID: centerID, RadiusPointID: radiusPointID})
		return true
	}
	exp, ok := s.expected().(prop.Compass)
	if !ok || exp.CenterID != centerID || exp.RadiusPointID != radiusPointID {
		return false
	}
	if _, ok := s.run.addCircle(centerID, radiusPointID, s.def.ExtendSegments); !ok {
		return false
	}
	s.advance()
	return true
}

// CommitSegment handles a committed straightedge action. Orientation is
// irrelevant for matching.
func (s *Session) CommitSegment(fromID, toID string) bool {
	if s.complete {
		if _, ok := s.run.addSegment(fromID, toID, "", s.def.ExtendSegments); !ok {
			return false
		}
		s.extraLog = append(s.extraLog, act.DrawSegment{FromID: fromID, ToID: toID})
		return true
	}
	exp, ok := s.expected().(prop.Straightedge)
	if !ok {
		return false
	}
	if !(exp.FromID == fromID && exp.ToID == toID) && !(exp.FromID == toID && exp.ToID == fromID) {
		return false
	}
	if _, ok := s.run.addSegment(fromID, toID, "", s.def.ExtendSegments); !ok {
		return false
	}
	s.advance()
	return true
}

// MarkIntersection handles marking a candidate as a real point. The
// candidate must be live; before completion its unordered parent pair
// must equal the expected step's, and a "beyond" disambiguator, when
// present, must pass the directional test.
func (s *Session) MarkIntersection(cand construction.Candidate) bool {
	if !s.run.hasCandidate(cand) {
		return false
	}
	if s.complete {
		s.run.markCandidate(cand, "", s.store, facts.AtConclusion)
		s.extraLog = append(s.extraLog, act.MarkIntersection{OfA: cand.OfA, OfB: cand.OfB, Which: cand.Which})
		return true
	}
	exp, ok := s.expected().(prop.Intersection)
	if !ok || !cand.SamePair(exp.OfA, exp.OfB) {
		return false
	}
	if exp.BeyondID != "" && !construction.IsCandidateBeyondPoint(s.run.state, cand, exp.BeyondID) {
		return false
	}
	s.run.markCandidate(cand, exp.Label, s.store, s.stepIdx)
	s.advance()
	return true
}

// CommitMacro handles invoking a proven proposition as one step. An
// unknown proposition id is a no-op: the step does not advance.
func (s *Session) CommitMacro(propID string, inputPointIDs []string) bool {
	if s.complete {
		run, ok := s.run.runMacro(s.reg, propID, inputPointIDs, nil, s.store, facts.AtConclusion, 1)
		if !ok {
			return false
		}
		s.ghosts = append(s.ghosts, ghostsOf(run, len(s.def.Steps))...)
		s.extraLog = append(s.extraLog, act.InvokeMacro{PropID: propID, InputPointIDs: slices.Clone(inputPointIDs)})
		return true
	}
	exp, ok := s.expected().(prop.Macro)
	if !ok || exp.PropID != propID || !slices.Equal(exp.InputPointIDs, inputPointIDs) {
		return false
	}
	run, ok := s.run.runMacro(s.reg, propID, inputPointIDs, exp.OutputLabels, s.store, s.stepIdx, 1)
	if !ok {
		return false
	}
	s.ghosts = append(s.ghosts, ghostsOf(run, s.stepIdx)...)
	s.advance()
	return true
}

// RewindToStep restores the proof to the moment exactly target steps
// had completed. It is a pure function of recorded history: the
// snapshot is restored, the fact store is rebuilt from the snapshot's
// flat fact list, the snapshot stack is truncated, and completion flags
// from target onward are cleared. The post-completion log is dropped;
// it described a construction that no longer exists.
func (s *Session) RewindToStep(target int) bool {
	if target < 0 || target >= len(s.snapshots) {
		return false
	}
	snap := s.snapshots[target]
	s.run.state = snap.State
	s.run.cands = slices.Clone(snap.Candidates)
	s.store = facts.Rebuild(snap.Facts)
	s.store.Describe = s.run.describer()
	s.ghosts = slices.Clone(snap.Ghosts)
	s.snapshots = s.snapshots[:target+1]
	s.stepIdx = target
	for i := target; i < len(s.stepDone); i++ {
		s.stepDone[i] = false
	}
	s.complete = false
	s.conclusion = ""
	s.extraLog = nil
	return true
}

func (s *Session) expected() prop.ExpectedAction {
	if s.stepIdx >= len(s.def.Steps) {
		return nil
	}
	return s.def.Steps[s.stepIdx].Action
}

// advance snapshots the already-updated values, then moves the step
// index forward by exactly one. Completing the last step triggers the
// conclusion hook and flips the machine to Complete.
func (s *Session) advance() {
	s.stepDone[s.stepIdx] = true
	s.stepIdx++
	s.snapshots = append(s.snapshots, s.capture())
	if s.stepIdx == len(s.def.Steps) {
		_, s.conclusion = s.def.Conclude(prop.Scope{
			State:   s.run.state,
			Store:   s.store,
			Resolve: func(id string) string { return id },
		})
		s.complete = true
	}
}

func (s *Session) capture() Snapshot {
	return Snapshot{
		State:      s.run.state,
		Candidates: slices.Clone(s.run.cands),
		Facts:      s.store.Facts(),
		Ghosts:     slices.Clone(s.ghosts),
	}
}

// State returns the current construction.
func (s *Session) State() construction.State { return s.run.state }

// Candidates returns the live intersection candidates.
func (s *Session) Candidates() []construction.Candidate { return slices.Clone(s.run.cands) }

// Facts returns the ordered equality fact list.
func (s *Session) Facts() []facts.Fact { return s.store.Facts() }

// Store exposes the ledger for equality queries and highlighting.
func (s *Session) Store() *facts.Store { return s.store }

// Ghosts returns the accumulated macro ghost layers.
func (s *Session) Ghosts() []GhostLayer { return slices.Clone(s.ghosts) }

// StepIndex returns the current step index; len(steps) once complete.
func (s *Session) StepIndex() int { return s.stepIdx }

// SnapshotCount returns the snapshot stack length (step index plus one).
func (s *Session) SnapshotCount() int { return len(s.snapshots) }

// StepDone reports whether step i has completed.
func (s *Session) StepDone(i int) bool {
	return i >= 0 && i < len(s.stepDone) && s.stepDone[i]
}

// Complete reports whether the proof has reached its conclusion.
func (s *Session) Complete() bool { return s.complete }

// Conclusion returns the conclusion statement text, empty until
// complete.
func (s *Session) Conclusion() string { return s.conclusion }

// CurrentStep returns the step awaiting an action.
func (s *Session) CurrentStep() (prop.Step, bool) {
	if s.stepIdx >= len(s.def.Steps) {
		return prop.Step{}, false
	}
	return s.def.Steps[s.stepIdx], true
}

// ExtraLog returns the recorded post-completion actions.
func (s *Session) ExtraLog() []act.Action { return slices.Clone(s.extraLog) }

// GivenPositions returns the current coordinates of the given points,
// keyed by id. Together with ExtraLog and a viewport this is the entire
// persisted form of a creation.
func (s *Session) GivenPositions() map[string]geom.Pt {
	out := make(map[string]geom.Pt)
	for i := range s.def.GivenPoints {
		id := fmt.Sprintf("p%d", i+1)
		if pt, ok := s.run.state.PointPos(id); ok {
			out[id] = pt
		}
	}
	return out
}
