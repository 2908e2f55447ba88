package models

import (
	"math"

	"github.com/julianstephens/daylog/internal/constants"
)

// MonthGoals are the step and study targets for one month.
type MonthGoals struct {
	StepsGoal int `json:"steps_goal"`
	StudyGoal int `json:"study_goal"`
}

// DefaultGoals returns the built-in targets.
func DefaultGoals() MonthGoals {
	return MonthGoals{
		StepsGoal: constants.DefaultStepsGoal,
		StudyGoal: constants.DefaultStudyGoal,
	}
}

// Coerce replaces non-positive goals with the defaults.
func (g MonthGoals) Coerce() MonthGoals {
	if g.StepsGoal <= 0 {
		g.StepsGoal = constants.DefaultStepsGoal
	}
	if g.StudyGoal <= 0 {
		g.StudyGoal = constants.DefaultStudyGoal
	}
	return g
}

// GoalsFromInput builds goals from raw numeric input. Non-finite or
// non-positive values fall back to the defaults; the rest are rounded.
func GoalsFromInput(steps, study float64) MonthGoals {
	return MonthGoals{
		StepsGoal: coerceGoal(steps, constants.DefaultStepsGoal),
		StudyGoal: coerceGoal(study, constants.DefaultStudyGoal),
	}
}

func coerceGoal(v float64, def int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	r := math.Round(v)
	if r <= 0 || r > math.MaxInt32 {
		return def
	}
	return int(r)
}
