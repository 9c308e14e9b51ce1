// Package harness provides conformance testing for proof constructions.
//
// The harness loads scenarios, drives a live session through its action
// list, and validates the outcome with assertions and golden trace
// snapshots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	prop: I.1
//	actions:
//	  - circle: {center: p1, radius_point: p2}
//	  - segment: {from: p1, to: p3}
//	    rejected: true
//	  - mark: {of: [c1, c2], beyond: p2}
//	  - invoke: {prop: I.1, inputs: [p1, p2]}
//	  - rewind: {to: 1}
//	expect:
//	  complete: true
//	  conclusion: "AB = AC = BC"
//	assertions:
//	  - type: point_at
//	    point: p3
//	    x: 0.5
//	    y: 0.866
//	    within: 0.001
//	  - type: equal
//	    left: [p1, p3]
//	    right: [p2, p3]
//
// # Assertion Types
//
//   - point_at: a point sits at the expected coordinates
//   - label: a point carries the expected display label
//   - equal: two distances are provably equal in the fact ledger
//   - element_count: the construction holds the expected element counts
//   - ghost_count: the expected number of ghost elements exist
//
// # Deterministic Testing
//
// A scenario executes against the proposition's authored given
// positions, so every run produces the identical element sequence. After
// a complete run the harness additionally rebuilds the construction
// through deterministic replay and demands the same elements back, which
// keeps the live path and the replay path from drifting apart. Golden
// trace files snapshot elements, facts and conclusion.
package harness
