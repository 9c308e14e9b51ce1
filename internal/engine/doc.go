// Package engine drives guided proofs over constructions.
//
// Three surfaces share one execution core:
//
//   - Session is the live step-validation state machine: it checks each
//     committed action against the current expected step, snapshots on
//     every advance, and can rewind by rebuilding from recorded history.
//   - Macro execution runs an entire inner proposition as a single
//     atomic step of the caller's proof, against the caller's state.
//   - Replay rebuilds the whole derived state from given positions plus
//     the proposition's step list and a recorded action log.
//
// The engine is synchronous and side-effect-free: every operation is a
// pure function from (state, inputs) to (new state, outputs). Nothing
// here blocks, suspends, or touches a wall clock; the calling layer
// re-invokes Replay once per input event, potentially once per animation
// frame during a drag, so determinism is the contract. Sharing one code
// path between live commits and replay is what keeps them identical:
// there is no "replay mode", just the same functions run again.
//
// There is deliberately no error channel. A non-matching action is a
// no-op returning false (wrong taps are the common case in an
// interactive tool, not exceptional input). A degenerate geometry simply
// produces fewer elements and facts; callers read "steps completed <
// total steps" and decide what to tell the user.
package engine
