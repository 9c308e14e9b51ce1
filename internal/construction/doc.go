// Package construction models a compass-and-straightedge construction: the
// points, circles and segments created so far, in creation order, plus the
// ephemeral intersection candidates between them.
//
// The State is a value. Every mutator returns a new State and leaves the
// receiver untouched, so any previously captured State remains valid
// forever. That is what makes the engine's per-step snapshot stack a cheap
// reference capture instead of a deep copy: nothing ever writes through an
// old value. Internally the element slices are cloned on write; with the
// dozens of elements a proof produces, the copies are noise.
//
// Determinism invariants:
//
//   - Element ids are never reused within a construction's lifetime.
//   - Labels and colors are drawn from monotonic counters, so replaying the
//     same sequence of creation calls always reproduces the same labels.
//   - SkipPointLabel / SkipColor advance the counters without creating an
//     element, so a perturbed replay that loses one intersection still
//     labels every later element the same way.
//
// Circle radii are never stored. Radius computes the live distance between
// the center and radius point, so a moved point changes every dependent
// circle with no cache invalidation at all.
package construction
