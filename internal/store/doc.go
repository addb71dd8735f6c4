// Package store provides SQLite-backed storage for compiled specs.
//
// Each compilation is recorded as a build with one spec document per target
// language:
//   - Builds: the schema sources, their hash and the tool versions
//   - Specs: the canonical JSON document and content hash per language
//
// # Ordering
//
// Builds are ordered by seq INTEGER, a logical clock, never by timestamps.
// Callers may supply seq or leave it zero for RecordCompilation to assign
// inside its write transaction. Queries that return several rows always end with
// ORDER BY seq ASC, id ASC COLLATE BINARY (or lang for specs), so results
// are identical across runs.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING. Recording the same build or spec twice
// is not an error and keeps the first row.
//
// # Connection
//
// Open passes WAL journaling, synchronous=NORMAL, a 5 second busy timeout,
// foreign keys and immediate transaction locking as DSN parameters.
// PRAGMA user_version holds the schema version.
//
// Spec documents and hashes come from ir.MarshalCanonical and ir.SpecHash.
package store
