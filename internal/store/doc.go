// Package store provides SQLite-backed storage for compiled rule sources and
// clustering runs.
//
// Tables:
//   - rule_sources: rule text keyed by its content hash, with the canonical
//     JSON of its split rules
//   - runs: one row per clustering run (UUIDv7 id, parameters, logical seq)
//   - run_members: the words of a run and the cluster each fell into
//
// # Ordering
//
// Runs are ordered by created_seq, a logical counter assigned on insert,
// never by wall time. Members keep the position they had in the dataset.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
