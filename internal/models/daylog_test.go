package models

import (
	"math"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestNormalizeDropsInvalidValues(t *testing.T) {
	weight := math.NaN()
	log := DayLog{
		WakeTime:  "7:05",
		SleepTime: "25:99",
		Steps:     intPtr(-3),
		StudyMin:  intPtr(45),
		Weight:    &weight,
		Memo:      "  rainy  ",
		Todos: []Todo{
			{ID: 1, Text: "  buy milk "},
			{ID: 2, Text: "   "},
		},
		Expenses: []ExpenseItem{
			{ID: 1, Amount: 0},
			{ID: 2, Amount: -5},
		},
		Cleaning: CleaningState{AreaKitchen: true, "garage": true},
	}

	got := log.Normalize()

	if got.WakeTime != "07:05" {
		t.Errorf("expected wake 07:05, got %q", got.WakeTime)
	}
	if got.SleepTime != "" {
		t.Errorf("expected invalid sleep time dropped, got %q", got.SleepTime)
	}
	if got.Steps != nil {
		t.Errorf("expected negative steps dropped, got %d", *got.Steps)
	}
	if got.StudyMin == nil || *got.StudyMin != 45 {
		t.Errorf("expected study 45, got %v", got.StudyMin)
	}
	if got.Weight != nil {
		t.Error("expected NaN weight dropped")
	}
	if got.Memo != "rainy" {
		t.Errorf("expected trimmed memo, got %q", got.Memo)
	}
	if len(got.Todos) != 1 || got.Todos[0].Text != "buy milk" {
		t.Errorf("unexpected todos: %+v", got.Todos)
	}
	if got.Expenses != nil {
		t.Errorf("expected all expenses dropped, got %+v", got.Expenses)
	}
	if len(got.Cleaning) != 1 || !got.Cleaning[AreaKitchen] {
		t.Errorf("unexpected cleaning state: %+v", got.Cleaning)
	}

	// the input must not be modified
	if log.Todos[0].Text != "  buy milk " {
		t.Error("Normalize modified its receiver")
	}
}

func TestNormalizeSortsExpenses(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	log := DayLog{Expenses: []ExpenseItem{
		{ID: 2, Amount: 300, CreatedAt: base.Add(time.Minute)},
		{ID: 1, Amount: 1200, CreatedAt: base},
	}}

	got := log.Normalize()
	if got.Expenses[0].ID != 1 || got.Expenses[1].ID != 2 {
		t.Errorf("expected expenses sorted by creation, got %+v", got.Expenses)
	}
}

func TestPatchApply(t *testing.T) {
	log := DayLog{
		WakeTime: "06:30",
		Steps:    intPtr(1000),
		Todos:    []Todo{{ID: 1, Text: "a"}},
	}

	steps := 5000
	memo := "walked"
	got := DayPatch{Steps: &steps, Memo: &memo, Clear: []Field{FieldWake}}.Apply(log)

	if got.WakeTime != "" {
		t.Errorf("expected wake cleared, got %q", got.WakeTime)
	}
	if *got.Steps != 5000 || got.Memo != "walked" {
		t.Errorf("unexpected patch result: %+v", got)
	}
	if len(got.Todos) != 1 {
		t.Error("todos should be untouched by the patch")
	}

	steps = 1
	if *got.Steps != 5000 {
		t.Error("patched log must not alias the patch value")
	}
	if *log.Steps != 1000 {
		t.Error("Apply modified the original log")
	}
}

func TestGoalsFromInput(t *testing.T) {
	tests := []struct {
		name         string
		steps, study float64
		want         MonthGoals
	}{
		{"valid", 8000, 60, MonthGoals{8000, 60}},
		{"rounded", 7999.6, 59.4, MonthGoals{8000, 59}},
		{"zero", 0, 0, MonthGoals{10000, 120}},
		{"negative", -1, -30, MonthGoals{10000, 120}},
		{"nan", math.NaN(), math.Inf(1), MonthGoals{10000, 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GoalsFromInput(tt.steps, tt.study); got != tt.want {
				t.Errorf("GoalsFromInput(%v, %v) = %+v, want %+v", tt.steps, tt.study, got, tt.want)
			}
		})
	}
}

func TestCleaningStatusOf(t *testing.T) {
	if CleaningStatusOf(nil) != CleaningNone {
		t.Error("expected none for nil state")
	}
	if CleaningStatusOf(CleaningState{AreaKitchen: true}) != CleaningPartial {
		t.Error("expected partial")
	}
	all := CleaningState{}
	for _, a := range CleaningAreas {
		all[a] = true
	}
	if CleaningStatusOf(all) != CleaningComplete {
		t.Error("expected complete")
	}
}

func TestAllTodosDone(t *testing.T) {
	if AllTodosDone(nil) {
		t.Error("empty list is not all done")
	}
	if AllTodosDone([]Todo{{Done: true}, {Done: false}}) {
		t.Error("expected false with a pending todo")
	}
	if !AllTodosDone([]Todo{{Done: true}, {Done: true}}) {
		t.Error("expected true when every todo is done")
	}
}
