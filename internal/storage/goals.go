package storage

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/models"
)

// GoalsStore maps month keys to step and study targets.
type GoalsStore struct {
	backend kv.Backend
	slot    string
	goals   map[daykey.MonthKey]models.MonthGoals
}

// NewGoalsStore returns an empty store bound to the month_goals slot.
func NewGoalsStore(backend kv.Backend) *GoalsStore {
	return &GoalsStore{
		backend: backend,
		slot:    constants.SlotMonthGoals,
		goals:   make(map[daykey.MonthKey]models.MonthGoals),
	}
}

// Load replaces the in-memory mapping with the persisted one. Failures leave
// the store empty and are returned as warnings, like DayLogStore.Load.
func (s *GoalsStore) Load() error {
	s.goals = make(map[daykey.MonthKey]models.MonthGoals)

	raw, ok, err := s.backend.Read(s.slot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok || raw == "" {
		return nil
	}

	var stored map[daykey.MonthKey]models.MonthGoals
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, s.slot, err)
	}
	for m, g := range stored {
		s.goals[m] = g.Coerce()
	}
	return nil
}

// Get returns the goals for a month. ok is false when the month has never
// been set up.
func (s *GoalsStore) Get(month daykey.MonthKey) (models.MonthGoals, bool) {
	g, ok := s.goals[month]
	return g, ok
}

// NeedsSetup reports whether the month has no goals yet.
func (s *GoalsStore) NeedsSetup(month daykey.MonthKey) bool {
	_, ok := s.goals[month]
	return !ok
}

// Set stores goals for a month after coercing non-positive values to the
// defaults, then writes the whole mapping. As with DayLogStore.Update the
// in-memory value is kept when the write fails.
func (s *GoalsStore) Set(month daykey.MonthKey, goals models.MonthGoals) (models.MonthGoals, error) {
	if _, err := daykey.ParseMonth(string(month)); err != nil {
		return models.MonthGoals{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	goals = goals.Coerce()
	s.goals[month] = goals

	data, err := json.Marshal(s.goals)
	if err != nil {
		return goals, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.backend.Write(s.slot, string(data)); err != nil {
		return goals, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return goals, nil
}

// Months returns every month with goals.
func (s *GoalsStore) Months() map[daykey.MonthKey]models.MonthGoals {
	out := make(map[daykey.MonthKey]models.MonthGoals, len(s.goals))
	for k, v := range s.goals {
		out[k] = v
	}
	return out
}
