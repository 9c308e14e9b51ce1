package facts

import (
	"slices"
	"sort"
)

// Step index sentinels for Fact.AtStep.
const (
	// AtGiven marks facts supplied before any step ran.
	AtGiven = -1
	// AtConclusion marks facts derived by the proposition's conclusion
	// hook, after the last step. The value sorts after every real step
	// index so rewind's "beyond the target" comparison needs no special
	// case.
	AtConclusion = 1 << 30
)

// Fact records one proven equality with its provenance.
type Fact struct {
	Left      Key
	Right     Key
	Citation  Citation
	Statement string
	// AtStep is the proof step index the fact was derived at, or one of
	// the AtGiven / AtConclusion sentinels.
	AtStep int
}

// Store is the equality ledger: an append-only fact list plus an
// equivalence index over it. Facts are only ever subtracted by rebuilding
// from a shorter prefix (see Rebuild), never deleted in place.
type Store struct {
	facts []Fact
	adj   map[Key][]Key

	// Describe renders the statement for a derived consequence fact.
	// The engine installs a label-aware formatter; the default falls
	// back to raw key notation.
	Describe func(a, b Key) string
}

// NewStore returns an empty ledger.
func NewStore() *Store {
	return &Store{adj: make(map[Key][]Key)}
}

// Facts returns a copy of the flat, ordered fact list. The copy is safe
// to hold across later mutations; snapshots rely on that.
func (st *Store) Facts() []Fact {
	return slices.Clone(st.facts)
}

// Len returns the number of recorded facts.
func (st *Store) Len() int {
	return len(st.facts)
}

// AddFact appends an equality and its transitive consequences. Every key
// the right side was already connected to becomes connected to the left
// side too, and each such consequence is recorded as an additional fact
// sharing the trigger's citation and step. The returned slice holds
// exactly the facts appended by this call, direct fact first.
//
// A pair that is already transitively known is still recorded (the ledger
// is a log, not a set) but generates no consequences, so no equivalence
// class changes.
func (st *Store) AddFact(left, right Key, cit Citation, statement string, atStep int) []Fact {
	if !sameKind(left, right) || left == right {
		return nil
	}

	direct := Fact{Left: left, Right: right, Citation: cit, Statement: statement, AtStep: atStep}
	appended := []Fact{direct}

	if !st.QueryEquality(left, right) {
		leftClass := st.reach(left)
		for _, m := range st.class(right) {
			if m == left || m == right {
				continue
			}
			if leftClass[m] {
				continue
			}
			appended = append(appended, Fact{
				Left:      left,
				Right:     m,
				Citation:  cit,
				Statement: st.describe(left, m),
				AtStep:    atStep,
			})
		}
	}

	for _, f := range appended {
		st.facts = append(st.facts, f)
		st.link(f.Left, f.Right)
	}
	return appended
}

// QueryEquality reports whether the two keys are provably equal:
// reachability in the equivalence graph, not just direct-fact lookup.
func (st *Store) QueryEquality(a, b Key) bool {
	if a == b {
		return true
	}
	if !sameKind(a, b) {
		return false
	}
	return st.reach(a)[b]
}

// EqualClass returns every key provably equal to k, including k itself,
// in a deterministic order. Used for highlighting.
func (st *Store) EqualClass(k Key) []Key {
	return st.class(k)
}

// EqualDistances returns the distance keys provably equal to k.
func (st *Store) EqualDistances(k DistanceKey) []DistanceKey {
	var out []DistanceKey
	for _, m := range st.class(k) {
		if d, ok := m.(DistanceKey); ok {
			out = append(out, d)
		}
	}
	return out
}

// EqualAngles returns the angle keys provably equal to k.
func (st *Store) EqualAngles(k AngleKey) []AngleKey {
	var out []AngleKey
	for _, m := range st.class(k) {
		if a, ok := m.(AngleKey); ok {
			out = append(out, a)
		}
	}
	return out
}

// Rebuild reconstructs a store from a flat, ordered fact list. This is the
// only supported way to subtract facts: rewind re-runs Rebuild over the
// retained prefix. No consequence generation happens here; the list
// already contains every fact that was ever derived.
func Rebuild(factList []Fact) *Store {
	st := NewStore()
	for _, f := range factList {
		st.facts = append(st.facts, f)
		st.link(f.Left, f.Right)
	}
	return st
}

func (st *Store) link(a, b Key) {
	st.adj[a] = append(st.adj[a], b)
	st.adj[b] = append(st.adj[b], a)
}

// reach returns the set of keys reachable from k, excluding k.
func (st *Store) reach(k Key) map[Key]bool {
	seen := map[Key]bool{k: true}
	frontier := []Key{k}
	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, next := range st.adj[cur] {
			if !seen[next] {
				seen[next] = true
				frontier = append(frontier, next)
			}
		}
	}
	delete(seen, k)
	return seen
}

// class returns k plus everything reachable from it, sorted by notation
// for deterministic output.
func (st *Store) class(k Key) []Key {
	out := []Key{k}
	for m := range st.reach(k) {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (st *Store) describe(a, b Key) string {
	if st.Describe != nil {
		return st.Describe(a, b)
	}
	return a.String() + " = " + b.String()
}
