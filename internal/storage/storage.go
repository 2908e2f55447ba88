// Package storage holds the two in-memory stores daylog keeps (day logs and
// month goals) and syncs each to its own slot of a kv.Backend on every
// mutation.
//
// Concurrency note:
//   - Stores are not safe for concurrent use by multiple goroutines without
//     external synchronization. The application controller owns them and
//     handles one user action at a time.
//   - Running multiple daylog processes against the same storage location is
//     prevented by the lock package.
package storage

import (
	"errors"
)

var (
	// ErrPersist wraps a failed durable write. The in-memory change it
	// accompanies has already been applied.
	ErrPersist = errors.New("failed to persist changes")
	// ErrCorruptSnapshot is returned by Load when the stored document cannot
	// be decoded. The store is left empty and usable.
	ErrCorruptSnapshot = errors.New("stored data is corrupt")
	// ErrUnavailable is returned by Load when the backend cannot be read.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInvalidKey is returned for keys that are not canonical.
	ErrInvalidKey = errors.New("invalid key")
)
