// Package store keeps the generation manifest: a SQLite record of every
// generate run and the SHA-256 of each file it wrote.
//
// The manifest answers one question for the status command: which generated
// files were edited by hand, or removed, since they were generated.
//
// # Ordering
//
// Runs are ordered by seq, an INTEGER assigned on insert, never by wall time.
// Run IDs are UUIDv7 and only identify a run.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
