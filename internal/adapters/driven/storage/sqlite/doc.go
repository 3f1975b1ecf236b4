// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - SnapshotStore: the topic snapshot and the in-flight job handle
//   - JobHistoryStore: finished and lost jobs
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// The topic snapshot and the job handle are separate rows of client_state,
// so writing one never touches the other.
//
// # Data Location
//
// By default, the database is stored at ~/.batchwriter/data/state.db
package sqlite
