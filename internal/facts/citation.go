package facts

import "fmt"

// Citation is the logical justification attached to a fact. The interface
// is sealed; the four implementations cover everything a Euclidean proof
// cites: a hypothesis, a definition, a common notion, or a previously
// proven proposition.
type Citation interface {
	// Label is the short form shown next to a proof line, e.g. "Def. 15".
	Label() string
	citation()
}

// Given marks a fact supplied as part of the proof's hypothesis.
type Given struct{}

func (Given) citation() {}

func (Given) Label() string { return "Given" }

// Definition cites a numbered definition, e.g. 15 for the definition of a
// circle (all radii equal).
type Definition struct {
	Number int
	Name   string
}

func (Definition) citation() {}

func (d Definition) Label() string { return fmt.Sprintf("Def. %d", d.Number) }

// CommonNotion cites a common notion, e.g. 1 for "things equal to the same
// thing are equal to one another".
type CommonNotion struct {
	Number int
}

func (CommonNotion) citation() {}

func (c CommonNotion) Label() string { return fmt.Sprintf("C.N. %d", c.Number) }

// Proposition cites a previously proven proposition, typically the inner
// proposition of a macro invocation.
type Proposition struct {
	PropID string
}

func (Proposition) citation() {}

func (p Proposition) Label() string { return "Prop. " + p.PropID }

// DefCircle is the definition every radius-equality fact cites.
var DefCircle = Definition{Number: 15, Name: "circle"}
