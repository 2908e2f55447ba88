package app

import (
	"fmt"
	"slices"

	"github.com/julianstephens/daylog/internal/aggregate"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

// AddExpense records a spend on the day. Amounts must be positive whole yen;
// anything else is rejected and not stored.
func (a *App) AddExpense(key daykey.DayKey, amount int64, note string) (models.ExpenseItem, error) {
	if amount <= 0 {
		return models.ExpenseItem{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if err := checkKey(key); err != nil {
		return models.ExpenseItem{}, err
	}

	expenses := a.logs.Get(key).Expenses
	taken := make(map[int64]bool, len(expenses))
	for _, e := range expenses {
		taken[e.ID] = true
	}
	item := models.ExpenseItem{
		ID:        a.freshID(taken),
		Amount:    amount,
		Note:      note,
		CreatedAt: a.now(),
	}
	expenses = append(expenses, item)
	log, err := a.update(key, models.DayPatch{Expenses: &expenses})

	// return the normalized copy
	if i := slices.IndexFunc(log.Expenses, func(e models.ExpenseItem) bool { return e.ID == item.ID }); i >= 0 {
		item = log.Expenses[i]
	}
	return item, err
}

// RemoveExpense deletes one expense item.
func (a *App) RemoveExpense(key daykey.DayKey, id int64) error {
	expenses := a.logs.Get(key).Expenses
	i := slices.IndexFunc(expenses, func(e models.ExpenseItem) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: expense %d on %s", ErrNotFound, id, key)
	}
	expenses = slices.Delete(expenses, i, i+1)
	patch := models.DayPatch{Expenses: &expenses}
	if len(expenses) == 0 {
		patch = models.DayPatch{Clear: []models.Field{models.FieldExpenses}}
	}
	_, err := a.update(key, patch)
	return err
}

// DayTotal is the sum of the day's expenses.
func (a *App) DayTotal(key daykey.DayKey) int64 {
	return aggregate.DayExpenseTotal(a.logs.Get(key))
}

// MonthTotal is the sum of expenses over every day in the month.
func (a *App) MonthTotal(month daykey.MonthKey) int64 {
	y, m, ok := month.YearMonth()
	if !ok {
		return 0
	}
	return aggregate.MonthExpenseTotal(a.logs.Entries(), y, m)
}
