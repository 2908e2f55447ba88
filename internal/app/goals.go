package app

import (
	"fmt"

	"github.com/julianstephens/daylog/internal/aggregate"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

// Goals returns the month's goals. needsSetup is true when the month has
// none yet, in which case the defaults are returned.
func (a *App) Goals(month daykey.MonthKey) (goals models.MonthGoals, needsSetup bool) {
	g, ok := a.goals.Get(month)
	if !ok {
		return models.DefaultGoals(), true
	}
	return g, false
}

// SetGoals stores the month's goals from raw input. Non-finite or
// non-positive values become the defaults.
func (a *App) SetGoals(month daykey.MonthKey, steps, study float64) (models.MonthGoals, error) {
	if _, err := daykey.ParseMonth(string(month)); err != nil {
		return models.MonthGoals{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	g, err := a.goals.Set(month, models.GoalsFromInput(steps, study))
	return g, a.persisted(err)
}

// StepsPercent compares the day's steps with its month's goal, unclamped.
func (a *App) StepsPercent(key daykey.DayKey) int {
	return aggregate.GoalPercent(a.logs.Get(key).StepsOrZero(), a.goalsFor(key).StepsGoal)
}

// StudyPercent compares the day's study minutes with its month's goal, unclamped.
func (a *App) StudyPercent(key daykey.DayKey) int {
	return aggregate.GoalPercent(a.logs.Get(key).StudyOrZero(), a.goalsFor(key).StudyGoal)
}

func (a *App) goalsFor(key daykey.DayKey) models.MonthGoals {
	month, ok := key.Month()
	if !ok {
		return models.DefaultGoals()
	}
	g, _ := a.Goals(month)
	return g
}

// Series returns the last limit days of steps. chronological orders by
// calendar date; otherwise days appear in the order they were first written.
func (a *App) Series(limit int, chronological bool) []aggregate.Point {
	if chronological {
		return aggregate.RecentSeriesChronological(a.logs.Entries(), limit)
	}
	return aggregate.RecentSeries(a.logs.Entries(), limit)
}

// Summary rolls up the month.
func (a *App) Summary(month daykey.MonthKey) aggregate.Summary {
	g, _ := a.Goals(month)
	return aggregate.MonthSummary(a.logs.Entries(), g, month)
}
