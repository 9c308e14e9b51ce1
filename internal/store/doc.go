// Package store provides SQLite-backed durable storage for saved
// creations.
//
// A creation is the persistent form of a finished proof plus its
// post-completion work: the proposition id, the proof's given-point
// positions, the canonical free-action log, and the viewport it was
// last looked at through. Nothing derived is stored; reopening a
// creation replays the proposition's steps and the log against the
// saved positions and reconstructs every element, label and fact.
//
// The action log is serialized as canonical JSON and content-addressed
// with SHA-256, so two creations with identical logs share a hash and a
// saved row can be checked for drift against its own payload.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
