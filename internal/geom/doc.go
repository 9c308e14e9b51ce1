// Package geom provides the closed-form 2D geometry under the construction
// engine: points as plain float64 pairs, and exact circle/segment/line
// intersection.
//
// Everything here is solved analytically. There is no iterative
// approximation anywhere in this package; replay re-runs these functions
// once per input event (potentially once per animation frame during a
// drag), and closed-form solving is what keeps that cheap.
//
// Two tolerances are in play:
//
//   - Eps (1e-9) guards degeneracy checks: zero radii, parallel segments,
//     tangency. Below Eps, two values are the same value.
//   - Tol (1e-3 world units) is the coincidence tolerance: two points
//     closer than Tol are the same point for deduplication purposes.
//
// Tol is deliberately coarse. Constructions live in roughly unit-scale
// world coordinates, and the consumers of candidate points need "this
// intersection is the point you already marked" to be robust against
// accumulated float error across a long proof.
package geom
