package models

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/daykey"
)

type CleaningArea string

const (
	AreaKitchen    CleaningArea = "kitchen"
	AreaBathroom   CleaningArea = "bathroom"
	AreaToilet     CleaningArea = "toilet"
	AreaLivingRoom CleaningArea = "living_room"
	AreaLaundry    CleaningArea = "laundry"
)

// CleaningAreas is the closed set of areas on the checklist, in display order.
var CleaningAreas = []CleaningArea{AreaKitchen, AreaBathroom, AreaToilet, AreaLivingRoom, AreaLaundry}

// IsCleaningArea reports whether a belongs to the checklist.
func IsCleaningArea(a CleaningArea) bool {
	return slices.Contains(CleaningAreas, a)
}

// CleaningState maps an area to whether it was cleaned that day.
type CleaningState map[CleaningArea]bool

type Todo struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type ExpenseItem struct {
	ID        int64     `json:"id"`
	Amount    int64     `json:"amount"` // whole yen
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DayLog is everything recorded for one calendar day. Zero values mean
// "not yet recorded": empty strings, nil pointers, nil slices and maps.
type DayLog struct {
	WakeTime  string        `json:"wake_time,omitempty"`  // HH:MM format
	SleepTime string        `json:"sleep_time,omitempty"` // HH:MM format
	Steps     *int          `json:"steps,omitempty"`
	StudyMin  *int          `json:"study_min,omitempty"`
	Weight    *float64      `json:"weight,omitempty"`
	Memo      string        `json:"memo,omitempty"`
	Todos     []Todo        `json:"todos,omitempty"`
	Expenses  []ExpenseItem `json:"expenses,omitempty"`
	Cleaning  CleaningState `json:"cleaning,omitempty"`
}

// DayEntry pairs a day key with its log.
type DayEntry struct {
	Key daykey.DayKey
	Log DayLog
}

// Field names a DayLog field, used to clear it.
type Field string

const (
	FieldWake     Field = "wake"
	FieldSleep    Field = "sleep"
	FieldSteps    Field = "steps"
	FieldStudy    Field = "study"
	FieldWeight   Field = "weight"
	FieldMemo     Field = "memo"
	FieldTodos    Field = "todos"
	FieldExpenses Field = "expenses"
	FieldCleaning Field = "cleaning"
)

// Fields lists every clearable field.
var Fields = []Field{FieldWake, FieldSleep, FieldSteps, FieldStudy, FieldWeight, FieldMemo, FieldTodos, FieldExpenses, FieldCleaning}

// DayPatch carries the fields an update replaces. Nil fields are left alone;
// list and map fields replace the stored value wholesale. Clear unsets
// fields after the replacements are applied.
type DayPatch struct {
	WakeTime  *string
	SleepTime *string
	Steps     *int
	StudyMin  *int
	Weight    *float64
	Memo      *string
	Todos     *[]Todo
	Expenses  *[]ExpenseItem
	Cleaning  *CleaningState
	Clear     []Field
}

// Apply returns a copy of l with the patch's fields replaced.
func (p DayPatch) Apply(l DayLog) DayLog {
	out := l.Clone()
	if p.WakeTime != nil {
		out.WakeTime = *p.WakeTime
	}
	if p.SleepTime != nil {
		out.SleepTime = *p.SleepTime
	}
	if p.Steps != nil {
		out.Steps = cloneInt(p.Steps)
	}
	if p.StudyMin != nil {
		out.StudyMin = cloneInt(p.StudyMin)
	}
	if p.Weight != nil {
		out.Weight = cloneFloat(p.Weight)
	}
	if p.Memo != nil {
		out.Memo = *p.Memo
	}
	if p.Todos != nil {
		out.Todos = slices.Clone(*p.Todos)
	}
	if p.Expenses != nil {
		out.Expenses = slices.Clone(*p.Expenses)
	}
	if p.Cleaning != nil {
		out.Cleaning = cloneCleaning(*p.Cleaning)
	}
	for _, f := range p.Clear {
		switch f {
		case FieldWake:
			out.WakeTime = ""
		case FieldSleep:
			out.SleepTime = ""
		case FieldSteps:
			out.Steps = nil
		case FieldStudy:
			out.StudyMin = nil
		case FieldWeight:
			out.Weight = nil
		case FieldMemo:
			out.Memo = ""
		case FieldTodos:
			out.Todos = nil
		case FieldExpenses:
			out.Expenses = nil
		case FieldCleaning:
			out.Cleaning = nil
		}
	}
	return out
}

// Clone returns a deep copy.
func (l DayLog) Clone() DayLog {
	out := l
	out.Steps = cloneInt(l.Steps)
	out.StudyMin = cloneInt(l.StudyMin)
	out.Weight = cloneFloat(l.Weight)
	out.Todos = slices.Clone(l.Todos)
	out.Expenses = slices.Clone(l.Expenses)
	out.Cleaning = cloneCleaning(l.Cleaning)
	return out
}

// Normalize applies the schema's defaulting rules. Invalid values are
// dropped rather than rejected so a partially bad record still loads.
func (l DayLog) Normalize() DayLog {
	out := l.Clone()

	out.WakeTime = normalizeClock(out.WakeTime)
	out.SleepTime = normalizeClock(out.SleepTime)
	out.Memo = strings.TrimSpace(out.Memo)

	if out.Steps != nil && *out.Steps < 0 {
		out.Steps = nil
	}
	if out.StudyMin != nil && *out.StudyMin < 0 {
		out.StudyMin = nil
	}
	if out.Weight != nil && (math.IsNaN(*out.Weight) || math.IsInf(*out.Weight, 0) || *out.Weight <= 0) {
		out.Weight = nil
	}

	if out.Todos != nil {
		todos := out.Todos[:0]
		for _, t := range out.Todos {
			t.Text = strings.TrimSpace(t.Text)
			if t.Text == "" {
				continue
			}
			todos = append(todos, t)
		}
		out.Todos = todos
	}
	if len(out.Todos) == 0 {
		out.Todos = nil
	}

	if out.Expenses != nil {
		expenses := out.Expenses[:0]
		for _, e := range out.Expenses {
			if e.Amount <= 0 {
				continue
			}
			e.Note = strings.TrimSpace(e.Note)
			// stored in UTC so a reload yields an identical value
			e.CreatedAt = e.CreatedAt.UTC()
			expenses = append(expenses, e)
		}
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].CreatedAt.Before(expenses[j].CreatedAt)
		})
		out.Expenses = expenses
	}
	if len(out.Expenses) == 0 {
		out.Expenses = nil
	}

	if out.Cleaning != nil {
		for area := range out.Cleaning {
			if !IsCleaningArea(area) {
				delete(out.Cleaning, area)
			}
		}
	}
	if len(out.Cleaning) == 0 {
		out.Cleaning = nil
	}

	return out
}

// IsEmpty reports whether nothing has been recorded.
func (l DayLog) IsEmpty() bool {
	return l.WakeTime == "" && l.SleepTime == "" && l.Steps == nil && l.StudyMin == nil &&
		l.Weight == nil && l.Memo == "" && len(l.Todos) == 0 && len(l.Expenses) == 0 && len(l.Cleaning) == 0
}

// StepsOrZero returns the recorded step count, 0 when absent.
func (l DayLog) StepsOrZero() int {
	if l.Steps == nil {
		return 0
	}
	return *l.Steps
}

// StudyOrZero returns the recorded study minutes, 0 when absent.
func (l DayLog) StudyOrZero() int {
	if l.StudyMin == nil {
		return 0
	}
	return *l.StudyMin
}

// ValidClock reports whether s is a valid HH:MM time.
func ValidClock(s string) bool {
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return ""
	}
	return t.Format(constants.TimeFormat)
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneCleaning(c CleaningState) CleaningState {
	if c == nil {
		return nil
	}
	out := make(CleaningState, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
