// Package kv provides the durable string-keyed store that the day-log and
// month-goal stores serialize themselves into. Each named slot holds one
// JSON document which is read once at startup and overwritten wholesale on
// every mutation.
package kv

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotOpen is returned when a backend is used before Open.
	ErrNotOpen = errors.New("storage not opened")
	// ErrInvalidSlot is returned for slot names outside [a-z0-9_].
	ErrInvalidSlot = errors.New("invalid slot name")
)

var slotPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Backend is a durable mapping from slot name to string value.
type Backend interface {
	// Open prepares the backend. It is safe to call more than once.
	Open() error
	// Read returns the value of a slot. ok is false when the slot was never written.
	Read(slot string) (value string, ok bool, err error)
	// Write replaces the value of a slot.
	Write(slot, value string) error
	// Slots lists every slot that has a value, sorted by name.
	Slots() ([]string, error)
	Close() error
	// Location is a non-sensitive description of where data lives.
	Location() string
}

// Kind identifies a backend implementation.
type Kind string

const (
	KindFile     Kind = "file"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindMemory   Kind = "memory"
)

// KindOf decides which backend serves a storage location.
func KindOf(loc string) Kind {
	lower := strings.ToLower(loc)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case lower == ":memory:":
		return KindMemory
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return KindSQLite
	default:
		return KindFile
	}
}

// FromLocation constructs the backend for a storage location. The backend
// is not opened.
func FromLocation(loc string) (Backend, error) {
	if strings.TrimSpace(loc) == "" {
		return nil, fmt.Errorf("storage location cannot be empty")
	}
	switch KindOf(loc) {
	case KindPostgres:
		if valid, err := ValidateConnString(loc); !valid {
			return nil, err
		}
		return NewPostgresBackend(loc), nil
	case KindMemory:
		return NewMemoryBackend(), nil
	case KindSQLite:
		return NewSQLiteBackend(loc), nil
	default:
		return NewFileBackend(loc), nil
	}
}

func checkSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}
