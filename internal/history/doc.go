// Package history persists a capped log of download operations in SQLite,
// guarded by a file lock against concurrent ytdlx invocations.
package history
