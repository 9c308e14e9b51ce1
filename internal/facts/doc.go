// Package facts is the symbolic ledger of proven equalities: which
// distances and angles are known equal, and why.
//
// Keys are canonical and order-independent (the distance AB and the
// distance BA are one key), so equality is a property of the pair, not of
// how a caller happened to spell it. Facts are append-only; the only way
// to take a fact back is to rebuild the whole store from a shorter prefix
// of the flat fact list, which is exactly what a proof rewind does.
//
// Adding a fact computes its transitive consequences eagerly: if the right
// key was already connected to a third key, the left key joins that class,
// and the consequence is recorded as an additional fact carrying the same
// citation. A UI can then present "this step proves three equalities at
// once" as one step.
package facts
