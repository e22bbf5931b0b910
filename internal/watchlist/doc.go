// Package watchlist persists tracked titles in SQLite and owns their
// lifecycle.
//
// The Store manages the database connection, schema initialization, and a
// file lock that enforces a single writing process. Entries are created
// unenriched by AddMany, mutated in place by enrichment and user toggles,
// and removed only by bulk clear or deduplication collapse. Insertion order
// is kept in an explicit position column so views and dedupe remain
// deterministic.
//
// Treat this package as the single source of truth for entry semantics; when
// you add fields, update schema.sql and bump schemaVersion.
package watchlist
