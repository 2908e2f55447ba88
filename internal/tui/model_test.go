package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daylog/internal/app"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/ids"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/tui/components/todolist"
)

func setupTestApp(t *testing.T) (*app.App, *kv.MemoryBackend) {
	t.Helper()
	b := kv.NewMemoryBackend()
	a := app.New(app.Options{
		Backend: b,
		IDs:     ids.NewSequence(0),
		Now:     func() time.Time { return time.Date(2024, 3, 5, 9, 30, 0, 0, time.Local) },
	})
	a.Open()
	return a, b
}

// setupTestModel returns a model for 2024-03-05 with March goals already set.
func setupTestModel(t *testing.T) (Model, *app.App, *kv.MemoryBackend) {
	t.Helper()
	a, b := setupTestApp(t)
	if _, err := a.SetGoals("2024-03", 10000, 120); err != nil {
		t.Fatalf("SetGoals failed: %v", err)
	}
	m := NewModel(a)
	if m.State() != StateCalendar {
		t.Fatalf("expected calendar state, got %d", m.State())
	}
	return m, a, b
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestNewModelPromptsForGoals(t *testing.T) {
	a, _ := setupTestApp(t)
	m := NewModel(a)

	if m.State() != StateGoals || m.form == nil {
		t.Fatalf("expected goals prompt, got state %d", m.State())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State() != StateCalendar || m.form != nil {
		t.Fatalf("esc should close the prompt, got state %d", m.State())
	}
	if !strings.Contains(m.status, "default goals for 2024-03") {
		t.Errorf("unexpected status: %q", m.status)
	}
	if _, needsSetup := a.Goals("2024-03"); !needsSetup {
		t.Error("dismissing the prompt must not save goals")
	}

	m, _ = update(t, m, runes("]"))
	if m.State() != StateGoals || m.goalsMonth != "2024-04" {
		t.Fatalf("expected prompt for 2024-04, got state %d month %s", m.State(), m.goalsMonth)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = update(t, m, runes("["))
	if m.State() != StateCalendar {
		t.Error("a month should only be prompted once per session")
	}
}

func TestCalendarNavigation(t *testing.T) {
	m, _, _ := setupTestModel(t)

	tests := []struct {
		key  string
		want daykey.DayKey
	}{
		{"l", "2024-03-06"},
		{"h", "2024-03-05"},
		{"j", "2024-03-12"},
		{"k", "2024-03-05"},
		{"]", "2024-04-01"},
		{"t", "2024-03-05"},
	}

	for _, tt := range tests {
		m, _ = update(t, m, runes(tt.key))
		if m.State() == StateGoals {
			m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		}
		if m.Selected() != tt.want {
			t.Fatalf("after %q expected %s, got %s", tt.key, tt.want, m.Selected())
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != StateDay {
		t.Errorf("enter should open the day pane, got %d", m.State())
	}
}

func TestMovingIntoMonthWithoutGoalsPrompts(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, _ = update(t, m, runes("k"))
	if m.Selected() != "2024-02-27" {
		t.Fatalf("unexpected selection %s", m.Selected())
	}
	if m.State() != StateGoals || m.goalsMonth != "2024-02" {
		t.Errorf("expected goals prompt for February, got state %d", m.State())
	}
}

func TestTabCyclesPanes(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State() != StateDay {
		t.Errorf("expected day pane, got %d", m.State())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State() != StateTodos {
		t.Errorf("expected todos pane, got %d", m.State())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State() != StateCalendar {
		t.Errorf("expected calendar pane, got %d", m.State())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State() != StateTodos {
		t.Errorf("expected todos pane, got %d", m.State())
	}
}

func TestTodoMessages(t *testing.T) {
	m, a, _ := setupTestModel(t)

	if err := m.applyTodoForm(TodoFormModel{Text: "  buy milk "}); err != nil {
		t.Fatalf("applyTodoForm failed: %v", err)
	}
	if err := m.applyTodoForm(TodoFormModel{Text: "water plants"}); err != nil {
		t.Fatalf("applyTodoForm failed: %v", err)
	}
	todos := a.Day("2024-03-05").Todos
	if len(todos) != 2 || todos[0].Text != "buy milk" {
		t.Fatalf("unexpected todos: %+v", todos)
	}

	m, _ = update(t, m, todolist.ToggleTodoMsg{ID: todos[1].ID})
	if !a.Day("2024-03-05").Todos[1].Done {
		t.Error("todo should be done")
	}

	m, _ = update(t, m, todolist.CarryOverMsg{})
	if !strings.Contains(m.status, "Moved 1 todo(s) to 2024-03-06") {
		t.Errorf("unexpected status: %q", m.status)
	}
	if got := a.Day("2024-03-06").Todos; len(got) != 1 || got[0].Text != "buy milk" {
		t.Errorf("unexpected carried todos: %+v", got)
	}

	m, _ = update(t, m, todolist.CarryOverMsg{})
	if m.status != "Nothing to carry over" {
		t.Errorf("unexpected status: %q", m.status)
	}

	m, _ = update(t, m, todolist.DeleteTodoMsg{ID: todos[1].ID})
	if got := a.Day("2024-03-05").Todos; len(got) != 0 {
		t.Errorf("expected no todos left, got %+v", got)
	}
	if m.todos.Len() != 0 {
		t.Errorf("list should be refreshed, has %d items", m.todos.Len())
	}
}

func TestTodoPaneKeys(t *testing.T) {
	m, a, _ := setupTestModel(t)
	if err := m.applyTodoForm(TodoFormModel{Text: "stretch"}); err != nil {
		t.Fatalf("applyTodoForm failed: %v", err)
	}
	m.refresh()
	m.state = StateTodos

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("space should produce a toggle command")
	}
	msg, ok := cmd().(todolist.ToggleTodoMsg)
	if !ok {
		t.Fatalf("expected ToggleTodoMsg, got %T", cmd())
	}
	m, _ = update(t, m, msg)
	if !a.Day("2024-03-05").Todos[0].Done {
		t.Error("todo should be done")
	}

	m, cmd = update(t, m, runes("a"))
	if cmd == nil {
		t.Fatal("a should produce an add command")
	}
	m, _ = update(t, m, cmd())
	if m.State() != StateAddTodo || m.form == nil {
		t.Errorf("expected add todo form, got state %d", m.State())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State() != StateTodos {
		t.Errorf("esc should return to the todos pane, got %d", m.State())
	}
}

func TestDayForm(t *testing.T) {
	m, a, b := setupTestModel(t)
	writes := b.Writes()

	err := m.applyDayForm(DayFormModel{
		Wake:   "06:30",
		Steps:  "8000",
		Study:  "45",
		Weight: "61.5",
		Memo:   "rainy",
	})
	if err != nil {
		t.Fatalf("applyDayForm failed: %v", err)
	}
	l := a.Day("2024-03-05")
	if l.WakeTime != "06:30" || *l.Steps != 8000 || *l.StudyMin != 45 || *l.Weight != 61.5 || l.Memo != "rainy" {
		t.Errorf("unexpected log: %+v", l)
	}
	if l.SleepTime != "" {
		t.Errorf("blank sleep should stay unset, got %q", l.SleepTime)
	}
	if got := b.Writes() - writes; got != 1 {
		t.Errorf("expected one write per submit, got %d", got)
	}
	writes = b.Writes()

	err = m.applyDayForm(DayFormModel{Wake: "06:30", Study: "45", Weight: "61.5", Memo: "rainy"})
	if err != nil {
		t.Fatalf("applyDayForm failed: %v", err)
	}
	if a.Day("2024-03-05").Steps != nil {
		t.Error("blank steps should clear the field")
	}
	if got := b.Writes() - writes; got != 1 {
		t.Errorf("expected one write per submit, got %d", got)
	}
	writes = b.Writes()

	// unchanged form
	err = m.applyDayForm(DayFormModel{Wake: "06:30", Study: "45", Weight: "61.5", Memo: "rainy"})
	if err != nil {
		t.Fatalf("applyDayForm failed: %v", err)
	}
	if b.Writes() != writes {
		t.Errorf("unchanged form should not write, got %d writes", b.Writes()-writes)
	}

	m.state = StateDay
	m, _ = update(t, m, runes("e"))
	if m.State() != StateEditDay || m.dayForm.Wake != "06:30" || m.dayForm.Weight != "61.5" {
		t.Fatalf("form should be prefilled, got state %d form %+v", m.State(), m.dayForm)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State() != StateDay {
		t.Errorf("esc should return to the day pane, got %d", m.State())
	}
}

func TestFormValidators(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) error
		input string
		ok    bool
	}{
		{"clock", validateClock, "06:30", true},
		{"blank clock", validateClock, "", true},
		{"bad clock", validateClock, "25:00", false},
		{"count", validateCount, "0", true},
		{"negative count", validateCount, "-1", false},
		{"weight", validateWeight, "61.5", true},
		{"zero weight", validateWeight, "0", false},
		{"amount", validateAmount, "1200", true},
		{"blank amount", validateAmount, "", false},
		{"goal", validateGoal, "8000", true},
		{"word goal", validateGoal, "lots", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.check(tt.input); (err == nil) != tt.ok {
				t.Errorf("validate(%q) = %v, want ok %v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestExpenseAndGoalsForms(t *testing.T) {
	m, a, _ := setupTestModel(t)

	if err := m.applyExpenseForm(ExpenseFormModel{Amount: "1200", Note: "lunch"}); err != nil {
		t.Fatalf("applyExpenseForm failed: %v", err)
	}
	if err := m.applyExpenseForm(ExpenseFormModel{Amount: "300"}); err != nil {
		t.Fatalf("applyExpenseForm failed: %v", err)
	}
	if got := a.DayTotal("2024-03-05"); got != 1500 {
		t.Errorf("expected day total 1500, got %d", got)
	}
	if err := m.applyExpenseForm(ExpenseFormModel{Amount: "-5"}); !errors.Is(err, app.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := m.applyGoalsForm("2024-04", GoalsFormModel{Steps: "8000", Study: "60"}); err != nil {
		t.Fatalf("applyGoalsForm failed: %v", err)
	}
	g, needsSetup := a.Goals("2024-04")
	if needsSetup || g.StepsGoal != 8000 || g.StudyGoal != 60 {
		t.Errorf("unexpected goals: %+v needsSetup %v", g, needsSetup)
	}
}

func TestCleaningAndCarryKeys(t *testing.T) {
	m, a, _ := setupTestModel(t)
	m.state = StateDay

	m, _ = update(t, m, runes("1"))
	if !a.Day("2024-03-05").Cleaning[models.AreaKitchen] {
		t.Error("1 should toggle the kitchen")
	}
	m, _ = update(t, m, runes("5"))
	if !a.Day("2024-03-05").Cleaning[models.AreaLaundry] {
		t.Error("5 should toggle the laundry")
	}
	m, _ = update(t, m, runes("1"))
	if a.Day("2024-03-05").Cleaning[models.AreaKitchen] {
		t.Error("a second press should clear the kitchen")
	}

	if _, err := a.AddTodo("2024-03-05", "call mom"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	m, _ = update(t, m, runes("c"))
	if !strings.Contains(m.status, "Moved 1") {
		t.Errorf("unexpected status: %q", m.status)
	}
}

func TestDetailShowsUnclampedPercent(t *testing.T) {
	m, a, _ := setupTestModel(t)
	if _, err := a.SetSteps("2024-03-05", 12000); err != nil {
		t.Fatalf("SetSteps failed: %v", err)
	}
	m.refresh()

	content := m.detail.Content()
	if !strings.Contains(content, "12000 / 10000") || !strings.Contains(content, "120%") {
		t.Errorf("unexpected detail:\n%s", content)
	}
}

func TestWarningsShownInStatus(t *testing.T) {
	m, _, b := setupTestModel(t)
	b.FailWrites(errors.New("disk full"))

	if err := m.applyExpenseForm(ExpenseFormModel{Amount: "500"}); err != nil {
		t.Fatalf("write failures should not be errors: %v", err)
	}
	m.refresh()

	view := m.View()
	if !strings.Contains(view, "changes could not be saved") {
		t.Errorf("expected warning in view:\n%s", view)
	}
	if !strings.Contains(view, "Month total ¥500") {
		t.Errorf("expected month total in view:\n%s", view)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
