// Package cache persists parsed script documents in a sqlite database.
//
// Entries are addressed by a [Key] identifying a file revision: a blake3
// digest of the file's lower-cased project-relative path, its last-write
// time, and its size. A lookup whose revision or schema version differs
// from the stored entry is a miss, so callers simply reparse.
//
// The payload is opaque to the store. Package script encodes it.
package cache
