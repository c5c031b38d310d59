// Package manifest provides SQLite-backed records of generation runs.
//
// Each run stores:
//   - Run: a UUIDv7 id, a logical sequence number, the IR fingerprint and
//     the generator and IR versions
//   - Artifacts: every emitted file with its content hash and size
//
// Verify re-hashes an output tree against the latest run and reports
// drifted and missing files, so hand edits to generated bindings are caught
// before they are committed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Run ordering uses seq, never wall time. Artifact hashes come from
// ir.ArtifactHash (SHA-256 with domain separation).
package manifest
