package aggregate

import (
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

// Summary rolls up one month of day logs.
type Summary struct {
	Month        daykey.MonthKey
	Goals        models.MonthGoals
	DaysRecorded int
	ExpenseTotal int64
	StepsTotal   int
	StudyTotal   int
	StepsDays    int
	StudyDays    int
	// StepsPercent and StudyPercent compare the daily average against the
	// month's goal, unclamped.
	StepsPercent int
	StudyPercent int
	WeightMin    *float64
	WeightMax    *float64
	TodosDone    int
	TodosOpen    int
}

// StepsAverage is the mean step count over days with steps recorded.
func (s Summary) StepsAverage() int {
	if s.StepsDays == 0 {
		return 0
	}
	return s.StepsTotal / s.StepsDays
}

// StudyAverage is the mean study minutes over days with study recorded.
func (s Summary) StudyAverage() int {
	if s.StudyDays == 0 {
		return 0
	}
	return s.StudyTotal / s.StudyDays
}

// MonthSummary aggregates every entry that decodes into month.
func MonthSummary(entries []models.DayEntry, goals models.MonthGoals, month daykey.MonthKey) Summary {
	s := Summary{Month: month, Goals: goals}
	year, mon, ok := month.YearMonth()
	if !ok {
		return s
	}

	for _, e := range entries {
		if !e.Key.InMonth(year, mon) || e.Log.IsEmpty() {
			continue
		}
		l := e.Log
		s.DaysRecorded++
		s.ExpenseTotal += DayExpenseTotal(l)
		if l.Steps != nil {
			s.StepsTotal += *l.Steps
			s.StepsDays++
		}
		if l.StudyMin != nil {
			s.StudyTotal += *l.StudyMin
			s.StudyDays++
		}
		if l.Weight != nil {
			w := *l.Weight
			if s.WeightMin == nil || w < *s.WeightMin {
				s.WeightMin = &w
			}
			if s.WeightMax == nil || w > *s.WeightMax {
				v := w
				s.WeightMax = &v
			}
		}
		for _, t := range l.Todos {
			if t.Done {
				s.TodosDone++
			} else {
				s.TodosOpen++
			}
		}
	}

	s.StepsPercent = GoalPercent(s.StepsAverage(), goals.StepsGoal)
	s.StudyPercent = GoalPercent(s.StudyAverage(), goals.StudyGoal)
	return s
}
