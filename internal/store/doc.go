// Package store provides SQLite-backed durable storage for the score
// snapshot log.
//
// The store is an append-only log of accepted snapshots:
//   - Snapshots: one row per accepted score state, keyed by content hash
//   - Parent links: each snapshot records the snapshot it was derived from
//
// Ordering uses seq INTEGER (a logical clock), never timestamps, so a
// history read back from the log replays identically regardless of wall
// time. All queries order by seq ASC, id ASC COLLATE BINARY for
// deterministic results. Snapshot IDs are content-addressed SHA-256
// hashes with domain separation, computed in internal/ikr/hash.go, so
// re-appending the same score state is a no-op.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce the parent link
package store
