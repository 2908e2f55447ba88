package app

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

// Day returns the log for key, empty when nothing is recorded.
func (a *App) Day(key daykey.DayKey) models.DayLog {
	return a.logs.Get(key)
}

// Days returns every stored day in first-write order.
func (a *App) Days() []models.DayEntry {
	return a.logs.Entries()
}

func (a *App) update(key daykey.DayKey, patch models.DayPatch) (models.DayLog, error) {
	log, err := a.logs.Update(key, patch)
	return log, a.persisted(err)
}

// SetWake records the wake time. An empty value clears it.
func (a *App) SetWake(key daykey.DayKey, hhmm string) (models.DayLog, error) {
	return a.setClock(key, hhmm, models.FieldWake)
}

// SetSleep records the sleep time. An empty value clears it.
func (a *App) SetSleep(key daykey.DayKey, hhmm string) (models.DayLog, error) {
	return a.setClock(key, hhmm, models.FieldSleep)
}

func (a *App) setClock(key daykey.DayKey, hhmm string, field models.Field) (models.DayLog, error) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return a.ClearField(key, field)
	}
	if !models.ValidClock(hhmm) {
		return a.logs.Get(key), fmt.Errorf("%w: %q is not a HH:MM time", ErrInvalidInput, hhmm)
	}
	patch := models.DayPatch{}
	if field == models.FieldWake {
		patch.WakeTime = &hhmm
	} else {
		patch.SleepTime = &hhmm
	}
	return a.update(key, patch)
}

func (a *App) SetSteps(key daykey.DayKey, steps int) (models.DayLog, error) {
	if steps < 0 {
		return a.logs.Get(key), fmt.Errorf("%w: steps cannot be negative", ErrInvalidInput)
	}
	return a.update(key, models.DayPatch{Steps: &steps})
}

func (a *App) SetStudy(key daykey.DayKey, minutes int) (models.DayLog, error) {
	if minutes < 0 {
		return a.logs.Get(key), fmt.Errorf("%w: study minutes cannot be negative", ErrInvalidInput)
	}
	return a.update(key, models.DayPatch{StudyMin: &minutes})
}

func (a *App) SetWeight(key daykey.DayKey, weight float64) (models.DayLog, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return a.logs.Get(key), fmt.Errorf("%w: weight must be a positive number", ErrInvalidInput)
	}
	return a.update(key, models.DayPatch{Weight: &weight})
}

func (a *App) SetMemo(key daykey.DayKey, memo string) (models.DayLog, error) {
	return a.update(key, models.DayPatch{Memo: &memo})
}

// ClearField unsets one field of the day. A day with no record is left
// unrecorded.
func (a *App) ClearField(key daykey.DayKey, field models.Field) (models.DayLog, error) {
	if !slices.Contains(models.Fields, field) {
		return a.logs.Get(key), fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	if err := checkKey(key); err != nil {
		return models.DayLog{}, err
	}
	if !a.logs.Has(key) {
		return models.DayLog{}, nil
	}
	return a.update(key, models.DayPatch{Clear: []models.Field{field}})
}

// UpdateDay applies several scalar edits to one day with a single write.
// Every set field is validated before anything changes. Clears on a day
// with no record are dropped.
func (a *App) UpdateDay(key daykey.DayKey, patch models.DayPatch) (models.DayLog, error) {
	if err := checkKey(key); err != nil {
		return models.DayLog{}, err
	}
	for _, clock := range []*string{patch.WakeTime, patch.SleepTime} {
		if clock != nil && !models.ValidClock(strings.TrimSpace(*clock)) {
			return a.logs.Get(key), fmt.Errorf("%w: %q is not a HH:MM time", ErrInvalidInput, *clock)
		}
	}
	if (patch.Steps != nil && *patch.Steps < 0) || (patch.StudyMin != nil && *patch.StudyMin < 0) {
		return a.logs.Get(key), fmt.Errorf("%w: steps and study minutes cannot be negative", ErrInvalidInput)
	}
	if w := patch.Weight; w != nil && (math.IsNaN(*w) || math.IsInf(*w, 0) || *w <= 0) {
		return a.logs.Get(key), fmt.Errorf("%w: weight must be a positive number", ErrInvalidInput)
	}
	for _, f := range patch.Clear {
		if !slices.Contains(models.Fields, f) {
			return a.logs.Get(key), fmt.Errorf("%w: unknown field %q", ErrInvalidInput, f)
		}
	}

	sets := patch.WakeTime != nil || patch.SleepTime != nil || patch.Steps != nil ||
		patch.StudyMin != nil || patch.Weight != nil || patch.Memo != nil ||
		patch.Todos != nil || patch.Expenses != nil || patch.Cleaning != nil
	if !sets && (len(patch.Clear) == 0 || !a.logs.Has(key)) {
		return a.logs.Get(key), nil
	}
	if !a.logs.Has(key) {
		patch.Clear = nil
	}
	return a.update(key, patch)
}

// ToggleCleaning flips one checklist area and returns its new state.
func (a *App) ToggleCleaning(key daykey.DayKey, area models.CleaningArea) (bool, error) {
	if !models.IsCleaningArea(area) {
		return false, fmt.Errorf("%w: unknown cleaning area %q", ErrInvalidInput, area)
	}
	state := a.logs.Get(key).Cleaning
	if state == nil {
		state = models.CleaningState{}
	}
	state[area] = !state[area]
	_, err := a.update(key, models.DayPatch{Cleaning: &state})
	return state[area], err
}

// ResetCleaning clears the whole checklist for the day.
func (a *App) ResetCleaning(key daykey.DayKey) (models.DayLog, error) {
	return a.ClearField(key, models.FieldCleaning)
}

// Decorate builds the calendar cell annotation for a day.
func (a *App) Decorate(key daykey.DayKey) models.Decoration {
	l := a.logs.Get(key)
	pending := 0
	for _, t := range l.Todos {
		if !t.Done {
			pending++
		}
	}
	return models.Decoration{
		WakeLabel:     l.WakeTime,
		ExpenseTotal:  a.DayTotal(key),
		Cleaning:      models.CleaningStatusOf(l.Cleaning),
		AllTodosDone:  models.AllTodosDone(l.Todos),
		PendingTodos:  pending,
		HasMemo:       l.Memo != "",
		HasAnyRecords: !l.IsEmpty(),
	}
}
