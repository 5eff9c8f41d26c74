// Package store keeps named diagram documents.
//
// A [Store] saves and loads [persist.Document] values under a document name.
// Several backends are available:
//
//   - [MemoryStore]: process-local, for tests and scratch sessions
//   - [FileStore]: one indented JSON file per document in a directory
//   - [SQLiteStore]: a single SQLite database file (pure Go driver)
//   - [RedisStore]: a Redis key per document plus a name index set
//   - [MongoStore]: one MongoDB document per diagram
//
// [Open] picks a backend from [Options] and wraps it so that every save and
// load is reported to the observability store hooks.
//
// Names are validated with [errors.ValidateDocumentName] before they reach a
// backend, so they are always safe to use as file names and keys.
package store
