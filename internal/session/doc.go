// Package session holds the client's login state.
//
// A session is nothing more than an opaque bearer token kept in a [Store]. The client never
// inspects the token: [Manager.IsAuthenticated] only asks whether one is present, and the
// MovieHub API remains the authority on whether it is still accepted.
//
// Stores:
//   - [FileStore] : JSON file under the user's home directory (the default)
//   - [DBStore] : session_values table in the local SQLite database
//   - [MemoryStore] : process-local, used by tests
package session
