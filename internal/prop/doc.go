// Package prop defines authored proposition data: the givens, the
// expected step sequence, and the conclusion of a guided proof.
//
// A Def is treated as opaque, validated input by the engine. Steps
// reference elements by their deterministic ids (p1, p2, ..., c1, ...,
// s1, ...), which is sound because id assignment is a pure function of
// the creation sequence: the author can count ahead, including through
// the elements a macro step will create.
//
// Built-in propositions (Elements I.1 through I.3) live in this package
// with Go conclusion hooks. Authored packs loaded from CUE use the
// default conclusion, which proves the result segments pairwise equal.
package prop
