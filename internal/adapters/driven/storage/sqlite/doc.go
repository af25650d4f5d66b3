// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - HistoryStore: per-session conversation log and session id reservation
//   - VectorStore: chunk text, metadata and embeddings with cosine search
//   - IngestRunStore: log of finished ingestion runs
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/docchat.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite in WAL mode allows
// concurrent readers; history writes are additionally serialised in process.
package sqlite
