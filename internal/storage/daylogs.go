package storage

import (
	"fmt"
	"slices"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/models"
)

// Change is one day's patch inside an UpdateMany call.
type Change struct {
	Key   daykey.DayKey
	Patch models.DayPatch
}

// DayLogStore maps day keys to logs and keeps their first-write order.
type DayLogStore struct {
	backend kv.Backend
	slot    string
	order   []daykey.DayKey
	logs    map[daykey.DayKey]models.DayLog
}

// NewDayLogStore returns an empty store bound to the day_logs slot.
func NewDayLogStore(backend kv.Backend) *DayLogStore {
	return &DayLogStore{
		backend: backend,
		slot:    constants.SlotDayLogs,
		logs:    make(map[daykey.DayKey]models.DayLog),
	}
}

// Load replaces the in-memory mapping with the persisted snapshot. A missing
// slot loads as empty. An unreadable or corrupt slot also leaves the store
// empty; the returned error describes why and is meant as a warning.
func (s *DayLogStore) Load() error {
	s.order = nil
	s.logs = make(map[daykey.DayKey]models.DayLog)

	raw, ok, err := s.backend.Read(s.slot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok || raw == "" {
		return nil
	}

	order, logs, err := decodeOrdered([]byte(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, s.slot, err)
	}
	for _, k := range order {
		logs[k] = logs[k].Normalize()
	}
	s.order = order
	s.logs = logs
	return nil
}

// Get returns the log for key, or an empty log when nothing is recorded.
// The result is a copy.
func (s *DayLogStore) Get(key daykey.DayKey) models.DayLog {
	return s.logs[key].Clone()
}

// Has reports whether a log exists for key.
func (s *DayLogStore) Has(key daykey.DayKey) bool {
	_, ok := s.logs[key]
	return ok
}

// Len returns the number of stored days.
func (s *DayLogStore) Len() int {
	return len(s.order)
}

// Keys returns the stored day keys in first-write order.
func (s *DayLogStore) Keys() []daykey.DayKey {
	return slices.Clone(s.order)
}

// Entries returns every stored day in first-write order. Logs are copies.
func (s *DayLogStore) Entries() []models.DayEntry {
	entries := make([]models.DayEntry, 0, len(s.order))
	for _, k := range s.order {
		entries = append(entries, models.DayEntry{Key: k, Log: s.logs[k].Clone()})
	}
	return entries
}

// Update merges patch into the log for key and writes the whole mapping to
// the backend. When the write fails the in-memory change is kept and an
// ErrPersist error is returned alongside the updated log.
func (s *DayLogStore) Update(key daykey.DayKey, patch models.DayPatch) (models.DayLog, error) {
	if _, err := daykey.Parse(string(key)); err != nil {
		return s.Get(key), fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	s.apply(key, patch)
	return s.Get(key), s.persist()
}

// UpdateMany applies every change in memory and then performs a single
// durable write, so the persisted snapshot never holds a partial result.
// All keys are validated before anything is applied.
func (s *DayLogStore) UpdateMany(changes []Change) error {
	for _, c := range changes {
		if _, err := daykey.Parse(string(c.Key)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	for _, c := range changes {
		s.apply(c.Key, c.Patch)
	}
	return s.persist()
}

// Snapshot returns the serialized form of the mapping as it would be
// persisted.
func (s *DayLogStore) Snapshot() ([]byte, error) {
	return encodeOrdered(s.order, s.logs)
}

func (s *DayLogStore) apply(key daykey.DayKey, patch models.DayPatch) {
	current, ok := s.logs[key]
	if !ok {
		s.order = append(s.order, key)
	}
	s.logs[key] = patch.Apply(current).Normalize()
}

func (s *DayLogStore) persist() error {
	data, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.backend.Write(s.slot, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
