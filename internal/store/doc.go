// Package store provides durable storage for exported programs.
//
// Uses SQLite with WAL mode for concurrent read access. Programs are keyed
// by content digest, so re-importing the same export is a no-op; the
// per-operation rows exist to make mnemonic and operand queries cheap
// without re-walking the JSON.
package store
