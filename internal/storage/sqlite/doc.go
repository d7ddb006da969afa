// Package sqlitestore is the SQLite backend for channel message logs.
//
// All channels share one database file. Messages are keyed by (channel, id),
// so both directions of a cursor are served by the primary key index:
//
//	SELECT ... WHERE channel = ? AND id < ? ORDER BY id DESC
//
// # Database Configuration
//
//   - WAL mode with synchronous=NORMAL
//   - 5-second busy timeout
//   - A single pooled connection. A cursor holds that connection until it is
//     closed, so callers must close one cursor before opening the next or
//     issuing another query.
package sqlitestore
