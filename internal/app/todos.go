package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/daylog/internal/carryover"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
)

// AddTodo appends a pending todo to the day.
func (a *App) AddTodo(key daykey.DayKey, text string) (models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Todo{}, fmt.Errorf("%w: todo text cannot be empty", ErrInvalidInput)
	}
	if err := checkKey(key); err != nil {
		return models.Todo{}, err
	}

	todos := a.logs.Get(key).Todos
	todo := models.Todo{ID: a.freshID(todoIDs(todos)), Text: text}
	todos = append(todos, todo)
	_, err := a.update(key, models.DayPatch{Todos: &todos})
	return todo, err
}

// ToggleTodo flips the done flag of one todo.
func (a *App) ToggleTodo(key daykey.DayKey, id int64) (models.Todo, error) {
	todos := a.logs.Get(key).Todos
	i := slices.IndexFunc(todos, func(t models.Todo) bool { return t.ID == id })
	if i < 0 {
		return models.Todo{}, fmt.Errorf("%w: todo %d on %s", ErrNotFound, id, key)
	}
	todos[i].Done = !todos[i].Done
	_, err := a.update(key, models.DayPatch{Todos: &todos})
	return todos[i], err
}

// RemoveTodo deletes one todo.
func (a *App) RemoveTodo(key daykey.DayKey, id int64) error {
	todos := a.logs.Get(key).Todos
	i := slices.IndexFunc(todos, func(t models.Todo) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: todo %d on %s", ErrNotFound, id, key)
	}
	todos = slices.Delete(todos, i, i+1)
	_, err := a.update(key, todosPatch(todos))
	return err
}

// CarryOver moves the day's pending todos to the following day.
func (a *App) CarryOver(key daykey.DayKey) (carryover.Result, error) {
	res, err := carryover.CarryOver(a.logs, key, key.Next(), a.ids)
	if err != nil {
		return res, a.persisted(err)
	}
	if res.Outcome == carryover.Moved {
		logger.Info("todos carried over", "from", res.From, "to", res.To, "count", len(res.Carried))
	}
	return res, nil
}

func todosPatch(todos []models.Todo) models.DayPatch {
	if len(todos) == 0 {
		return models.DayPatch{Clear: []models.Field{models.FieldTodos}}
	}
	return models.DayPatch{Todos: &todos}
}

func todoIDs(todos []models.Todo) map[int64]bool {
	taken := make(map[int64]bool, len(todos))
	for _, t := range todos {
		taken[t.ID] = true
	}
	return taken
}

// freshID draws ids until one is not already used on the day.
func (a *App) freshID(taken map[int64]bool) int64 {
	id := a.ids.Next()
	for taken[id] {
		id = a.ids.Next()
	}
	return id
}
