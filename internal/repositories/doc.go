// Package repositories implements SQLite persistence for the client's local state.
//
// Nothing stored here is authoritative: the MovieHub API owns movies and reviews, and the
// local tables only hold the last synced snapshot so the catalog can be browsed offline.
//
// Key Implementations:
//   - [MovieRepository] : catalog snapshot (movies plus their reviews), replaced atomically on sync
//   - [SessionRepository] : key/value rows backing the database session store
//
// Schema lives in the shared package's embedded migrations; callers open the database with
// [shared.OpenDatabase] before constructing a repository.
package repositories
