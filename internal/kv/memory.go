package kv

import (
	"sort"
	"sync"
)

// MemoryBackend keeps slots in process memory. It is the fallback when no
// durable backend can be opened and the fake used by tests: it counts
// writes and can be told to fail them.
type MemoryBackend struct {
	mu       sync.Mutex
	slots    map[string]string
	writes   int
	writeErr error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]string)}
}

func (b *MemoryBackend) Open() error { return nil }

func (b *MemoryBackend) Read(slot string) (string, bool, error) {
	if err := checkSlot(slot); err != nil {
		return "", false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.slots[slot]
	return v, ok, nil
}

func (b *MemoryBackend) Write(slot, value string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return b.writeErr
	}
	b.slots[slot] = value
	b.writes++
	return nil
}

func (b *MemoryBackend) Slots() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	slots := make([]string, 0, len(b.slots))
	for k := range b.slots {
		slots = append(slots, k)
	}
	sort.Strings(slots)
	return slots, nil
}

func (b *MemoryBackend) Close() error { return nil }

func (b *MemoryBackend) Location() string { return ":memory:" }

// Writes returns the number of successful writes.
func (b *MemoryBackend) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// FailWrites makes every later Write return err. A nil err restores writes.
func (b *MemoryBackend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

// Set stores a raw value without counting it as a write, for seeding
// corrupt or legacy content.
func (b *MemoryBackend) Set(slot, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[slot] = value
}
