package models

// CleaningStatus summarizes a day's checklist.
type CleaningStatus int

const (
	CleaningNone CleaningStatus = iota
	CleaningPartial
	CleaningComplete
)

func (c CleaningStatus) String() string {
	switch c {
	case CleaningPartial:
		return "partial"
	case CleaningComplete:
		return "complete"
	default:
		return "none"
	}
}

// Decoration is what the calendar grid shows inside a day cell.
type Decoration struct {
	WakeLabel     string
	ExpenseTotal  int64
	Cleaning      CleaningStatus
	AllTodosDone  bool
	PendingTodos  int
	HasMemo       bool
	HasAnyRecords bool
}

// CleaningStatusOf reports how much of the checklist is done.
func CleaningStatusOf(c CleaningState) CleaningStatus {
	done := 0
	for _, area := range CleaningAreas {
		if c[area] {
			done++
		}
	}
	switch {
	case done == 0:
		return CleaningNone
	case done == len(CleaningAreas):
		return CleaningComplete
	default:
		return CleaningPartial
	}
}

// AllTodosDone is true when the day has todos and every one is done.
func AllTodosDone(todos []Todo) bool {
	if len(todos) == 0 {
		return false
	}
	for _, t := range todos {
		if !t.Done {
			return false
		}
	}
	return true
}
