// Package storage provides durable key-value storage for the session token.
//
// It is the terminal-side counterpart of a browser's per-origin
// localStorage: a tiny KV that survives process restarts, with the
// TokenStore layered on top to read and write the two session entries.
//
// Backends:
//
//   - file: a YAML map in ~/.authfront/session.yaml, optionally sealed
//     with an AEAD cipher (default)
//   - badger: an embedded Badger v3 database
//   - memory: process-local, for tests and --no-persist runs
package storage
