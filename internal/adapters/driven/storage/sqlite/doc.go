// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Chunk, version and change record persistence
//   - MonitorStore: Monitored documentation registrations
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Vector Search
//
// Embeddings are stored as little-endian float32 blobs. Similarity search
// scans the newest version of each document and ranks by cosine similarity
// in Go; at documentation scale a brute-force scan stays well under
// interactive latency.
//
// # Data Location
//
// By default, the database is stored at ~/.docmon/data/docmon.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
