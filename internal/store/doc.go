// Package store provides SQLite-backed persistence for harness runs.
//
// Two append-only tables:
//   - runs: one outcome per (label, API version), with a digest of its trace
//   - calls: the dispatch trace of each run
//
// All ordering uses the logical seq columns, never timestamps. Queries
// break ties with id COLLATE BINARY so reads are deterministic.
//
// Call arguments are stored as canonical JSON (internal/ir).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
