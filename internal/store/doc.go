// Package store provides SQLite-backed durable storage for diary readings.
//
// The store holds a single collection:
//   - records: one row per reading, primary key id
//   - by_createdAt: secondary index driving recency order
//   - by_date: secondary index driving date-range queries
//
// # Handle Model
//
// A *Store is an explicit handle created once and passed to callers. Init
// opens the connection and establishes the schema on first use; later calls
// reuse the live connection. Every operation calls Init itself, so early
// callers never race setup.
//
// # Ordering
//
//   - Recency is created_at, never date
//   - Reads return ORDER BY created_at DESC, id DESC
//   - created_at is strictly increasing per handle (see Insert)
//
// # Errors
//
// Storage failures wrap ErrStorageUnavailable. An id collision on insert
// wraps ErrWriteConflict. A missing record is never an error: DeleteByID is
// idempotent and reads return empty slices.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Fail fast after the configured wait (default 5s)
package store
