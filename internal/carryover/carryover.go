// Package carryover moves unfinished todos from one day to another.
package carryover

import (
	"errors"
	"fmt"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/ids"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

var ErrSameDay = errors.New("source and destination are the same day")

// Store is the part of the day log store carry-over needs.
type Store interface {
	Get(key daykey.DayKey) models.DayLog
	UpdateMany(changes []storage.Change) error
}

type Outcome int

const (
	// Unchanged means the source had no pending todos. Nothing was modified
	// and nothing was written.
	Unchanged Outcome = iota
	// Moved means pending todos were moved and both days were written.
	Moved
)

func (o Outcome) String() string {
	if o == Moved {
		return "moved"
	}
	return "unchanged"
}

type Result struct {
	Outcome Outcome
	From    daykey.DayKey
	To      daykey.DayKey
	// Carried holds the todos appended to the destination, with their new ids.
	Carried []models.Todo
	// Kept is the number of done todos left on the source day.
	Kept int
}

// CarryOver moves every pending todo on from to the end of to's list under
// fresh ids from gen, leaving only done todos on from. Both days are
// persisted with one write. When from has nothing pending the result is
// Unchanged and the store is not touched.
//
// A non-nil error wrapping storage.ErrPersist means the move was applied in
// memory but not saved.
func CarryOver(store Store, from, to daykey.DayKey, gen ids.Generator) (Result, error) {
	res := Result{Outcome: Unchanged, From: from, To: to}
	if from == to {
		return res, ErrSameDay
	}
	if _, err := daykey.Parse(string(from)); err != nil {
		return res, fmt.Errorf("%w: %v", storage.ErrInvalidKey, err)
	}
	if _, err := daykey.Parse(string(to)); err != nil {
		return res, fmt.Errorf("%w: %v", storage.ErrInvalidKey, err)
	}

	source := store.Get(from)
	var done, pending []models.Todo
	for _, t := range source.Todos {
		if t.Done {
			done = append(done, t)
		} else {
			pending = append(pending, t)
		}
	}
	res.Kept = len(done)
	if len(pending) == 0 {
		return res, nil
	}

	dest := store.Get(to)
	taken := make(map[int64]struct{}, len(dest.Todos)+len(pending))
	for _, t := range dest.Todos {
		taken[t.ID] = struct{}{}
	}

	carried := make([]models.Todo, 0, len(pending))
	for _, t := range pending {
		id := gen.Next()
		for {
			if _, clash := taken[id]; !clash {
				break
			}
			id = gen.Next()
		}
		taken[id] = struct{}{}
		carried = append(carried, models.Todo{ID: id, Text: t.Text, Done: false})
	}

	destTodos := append(dest.Todos, carried...)
	err := store.UpdateMany([]storage.Change{
		{Key: from, Patch: todosPatch(done)},
		{Key: to, Patch: models.DayPatch{Todos: &destTodos}},
	})

	res.Outcome = Moved
	res.Carried = carried
	return res, err
}

func todosPatch(todos []models.Todo) models.DayPatch {
	if len(todos) == 0 {
		return models.DayPatch{Clear: []models.Field{models.FieldTodos}}
	}
	return models.DayPatch{Todos: &todos}
}
