// Package act defines the committed-action vocabulary: the log entries a
// construction is recorded as, and their canonical serialized form.
//
// Actions are structural references, never raw coordinates: "the circle
// centered at p1 through p2", "the candidate of {c1, c2} at index 0".
// Replaying the same log against perturbed given-point positions therefore
// produces a geometrically consistent, numerically different construction,
// which is what makes live dragging work.
//
// The canonical encoding (sorted object keys, NFC-normalized strings, no
// floats, no whitespace) exists so that a log has exactly one byte
// representation and therefore one content hash. Saved creations are
// verified against that hash after replay.
package act
