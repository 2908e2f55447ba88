// Package daykey maps calendar dates to the canonical string keys every
// persisted record is looked up by.
//
// A DayKey depends only on the local calendar date of a time.Time: two
// instants on the same local day always produce the same key.
package daykey

import (
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
)

// DayKey identifies one calendar day (YYYY-MM-DD).
type DayKey string

// MonthKey identifies one calendar month (YYYY-MM).
type MonthKey string

// FromTime returns the key of the local calendar day t falls on.
func FromTime(t time.Time) DayKey {
	t = t.In(time.Local)
	return FromDate(t.Year(), t.Month(), t.Day())
}

// FromDate builds a key from explicit date parts. Out-of-range parts are
// normalized the way time.Date normalizes them (Jan 32 is Feb 1).
func FromDate(year int, month time.Month, day int) DayKey {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	return DayKey(d.Format(constants.DateFormat))
}

// Today returns the key for the current local day.
func Today() DayKey {
	return FromTime(time.Now())
}

// MonthOf returns the month key of the local calendar day t falls on.
func MonthOf(t time.Time) MonthKey {
	t = t.In(time.Local)
	return MonthKey(t.Format(constants.MonthFormat))
}

// Parse decodes a day key to local midnight of that day. Only the exact
// YYYY-MM-DD form is accepted.
func Parse(s string) (DayKey, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	// time.Parse accepts some non-canonical inputs; round-trip to reject them
	if t.Format(constants.DateFormat) != s {
		return "", fmt.Errorf("invalid day key %q: not in canonical form", s)
	}
	return DayKey(s), nil
}

// ParseMonth decodes a month key. Only the exact YYYY-MM form is accepted.
func ParseMonth(s string) (MonthKey, error) {
	t, err := time.ParseInLocation(constants.MonthFormat, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid month key %q: %w", s, err)
	}
	if t.Format(constants.MonthFormat) != s {
		return "", fmt.Errorf("invalid month key %q: not in canonical form", s)
	}
	return MonthKey(s), nil
}

// Time returns local midnight of the day. ok is false for malformed keys.
func (k DayKey) Time() (time.Time, bool) {
	t, err := time.ParseInLocation(constants.DateFormat, string(k), time.Local)
	if err != nil || t.Format(constants.DateFormat) != string(k) {
		return time.Time{}, false
	}
	return t, true
}

// Date decodes the year, month and day. ok is false for malformed keys,
// so keys from other stores never match by accident.
func (k DayKey) Date() (year int, month time.Month, day int, ok bool) {
	t, ok := k.Time()
	if !ok {
		return 0, 0, 0, false
	}
	return t.Year(), t.Month(), t.Day(), true
}

// Month returns the month key the day belongs to.
func (k DayKey) Month() (MonthKey, bool) {
	t, ok := k.Time()
	if !ok {
		return "", false
	}
	return MonthOf(t), true
}

// InMonth reports whether the day decodes to exactly the given year and month.
func (k DayKey) InMonth(year int, month time.Month) bool {
	y, m, _, ok := k.Date()
	return ok && y == year && m == month
}

// Next returns the following calendar day.
func (k DayKey) Next() DayKey {
	return k.AddDays(1)
}

// Prev returns the preceding calendar day.
func (k DayKey) Prev() DayKey {
	return k.AddDays(-1)
}

// AddDays shifts the key by n calendar days. Malformed keys are returned as-is.
func (k DayKey) AddDays(n int) DayKey {
	y, m, d, ok := k.Date()
	if !ok {
		return k
	}
	return FromDate(y, m, d+n)
}

// Weekday returns the day of the week, Sunday for malformed keys.
func (k DayKey) Weekday() time.Weekday {
	t, ok := k.Time()
	if !ok {
		return time.Sunday
	}
	return t.Weekday()
}

func (k DayKey) String() string {
	return string(k)
}

// Time returns local midnight on the first of the month.
func (m MonthKey) Time() (time.Time, bool) {
	t, err := time.ParseInLocation(constants.MonthFormat, string(m), time.Local)
	if err != nil || t.Format(constants.MonthFormat) != string(m) {
		return time.Time{}, false
	}
	return t, true
}

// YearMonth decodes the year and month.
func (m MonthKey) YearMonth() (int, time.Month, bool) {
	t, ok := m.Time()
	if !ok {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// Next returns the following month.
func (m MonthKey) Next() MonthKey {
	return m.addMonths(1)
}

// Prev returns the preceding month.
func (m MonthKey) Prev() MonthKey {
	return m.addMonths(-1)
}

func (m MonthKey) addMonths(n int) MonthKey {
	y, mon, ok := m.YearMonth()
	if !ok {
		return m
	}
	return MonthKey(time.Date(y, mon+time.Month(n), 1, 0, 0, 0, 0, time.Local).Format(constants.MonthFormat))
}

// First returns the key of the first day of the month.
func (m MonthKey) First() DayKey {
	y, mon, ok := m.YearMonth()
	if !ok {
		return ""
	}
	return FromDate(y, mon, 1)
}

// Days lists every day of the month in calendar order.
func (m MonthKey) Days() []DayKey {
	y, mon, ok := m.YearMonth()
	if !ok {
		return nil
	}
	// day 0 of the next month is the last day of this one
	last := time.Date(y, mon+1, 0, 0, 0, 0, 0, time.Local).Day()
	days := make([]DayKey, 0, last)
	for d := 1; d <= last; d++ {
		days = append(days, FromDate(y, mon, d))
	}
	return days
}

func (m MonthKey) String() string {
	return string(m)
}
