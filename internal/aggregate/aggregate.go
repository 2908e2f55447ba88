// Package aggregate computes totals, goal percentages and chart series from
// day log snapshots. Every function is pure.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

// Point is one day on the steps chart.
type Point struct {
	Key   daykey.DayKey
	Label string
	Steps int
}

// DayExpenseTotal sums the day's expense amounts.
func DayExpenseTotal(log models.DayLog) int64 {
	var total int64
	for _, e := range log.Expenses {
		total += e.Amount
	}
	return total
}

// MonthExpenseTotal sums the expenses of every day that decodes to exactly
// year and month. Keys that do not decode are skipped.
func MonthExpenseTotal(entries []models.DayEntry, year int, month time.Month) int64 {
	var total int64
	for _, e := range entries {
		if e.Key.InMonth(year, month) {
			total += DayExpenseTotal(e.Log)
		}
	}
	return total
}

// GoalPercent returns value as a rounded percentage of goal. The result is
// not clamped and may exceed 100. A non-positive goal yields 0.
func GoalPercent(value, goal int) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(float64(value) / float64(goal) * 100))
}

// RingFill clamps a percentage to [0, 100] for bounded indicators.
func RingFill(percent int) int {
	return max(0, min(100, percent))
}

// RecentSeries returns the last limit entries in store insertion order.
// Insertion order is not necessarily calendar order; use
// RecentSeriesChronological when the chart must follow the calendar.
func RecentSeries(entries []models.DayEntry, limit int) []Point {
	if limit <= 0 {
		return nil
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return points(entries)
}

// RecentSeriesChronological returns the limit most recent days by calendar
// date, oldest first. Keys that do not decode are left out.
func RecentSeriesChronological(entries []models.DayEntry, limit int) []Point {
	if limit <= 0 {
		return nil
	}

	dated := make([]models.DayEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := e.Key.Time(); ok {
			dated = append(dated, e)
		}
	}
	// canonical keys sort lexically in calendar order
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Key < dated[j].Key
	})
	if len(dated) > limit {
		dated = dated[len(dated)-limit:]
	}
	return points(dated)
}

func points(entries []models.DayEntry) []Point {
	out := make([]Point, 0, len(entries))
	for _, e := range entries {
		out = append(out, Point{
			Key:   e.Key,
			Label: label(e.Key),
			Steps: e.Log.StepsOrZero(),
		})
	}
	return out
}

func label(k daykey.DayKey) string {
	t, ok := k.Time()
	if !ok {
		return k.String()
	}
	return t.Format(constants.SeriesLabelFormat)
}
