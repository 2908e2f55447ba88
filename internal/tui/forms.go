package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

func validateClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || models.ValidClock(s) {
		return nil
	}
	return errors.New("use HH:MM, for example 06:30")
}

func validateCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("must be a whole number of at least 0")
	}
	return nil
}

func validateWeight(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || w <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

func validateAmount(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return errors.New("must be a positive whole yen amount")
	}
	return nil
}

func validateGoal(s string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

// NewDayForm edits the scalar fields of a day. Blank inputs clear the field.
func NewDayForm(fm *DayFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Wake (HH:MM)").Value(&fm.Wake).Validate(validateClock),
			huh.NewInput().Title("Sleep (HH:MM)").Value(&fm.Sleep).Validate(validateClock),
			huh.NewInput().Title("Steps").Value(&fm.Steps).Validate(validateCount),
			huh.NewInput().Title("Study (min)").Value(&fm.Study).Validate(validateCount),
			huh.NewInput().Title("Weight (kg)").Value(&fm.Weight).Validate(validateWeight),
			huh.NewText().Title("Memo").Value(&fm.Memo),
		),
	)
}

func NewTodoForm(fm *TodoFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Todo").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("todo text cannot be empty")
					}
					return nil
				}),
		),
	)
}

func NewExpenseForm(fm *ExpenseFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Amount (¥)").Value(&fm.Amount).Validate(validateAmount),
			huh.NewInput().Title("Note").Value(&fm.Note),
		),
	)
}

func NewGoalsForm(month daykey.MonthKey, fm *GoalsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Goals for %s", month)).
				Description("Press esc to keep the defaults for now."),
			huh.NewInput().Title("Daily steps").Value(&fm.Steps).Validate(validateGoal),
			huh.NewInput().Title("Daily study (min)").Value(&fm.Study).Validate(validateGoal),
		),
	)
}

func (m *Model) openForm(state SessionState, form *huh.Form) tea.Cmd {
	m.form = form
	if m.state < paneCount {
		m.previousState = m.state
	}
	m.state = state
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.state = m.previousState
}

func (m *Model) openDayForm() tea.Cmd {
	l := m.app.Day(m.calendar.Selected)
	m.dayForm = &DayFormModel{
		Wake:  l.WakeTime,
		Sleep: l.SleepTime,
		Memo:  l.Memo,
	}
	if l.Steps != nil {
		m.dayForm.Steps = strconv.Itoa(*l.Steps)
	}
	if l.StudyMin != nil {
		m.dayForm.Study = strconv.Itoa(*l.StudyMin)
	}
	if l.Weight != nil {
		m.dayForm.Weight = strconv.FormatFloat(*l.Weight, 'f', -1, 64)
	}
	return m.openForm(StateEditDay, NewDayForm(m.dayForm))
}

func (m *Model) openTodoForm() tea.Cmd {
	m.todoForm = &TodoFormModel{}
	return m.openForm(StateAddTodo, NewTodoForm(m.todoForm))
}

func (m *Model) openExpenseForm() tea.Cmd {
	m.expenseForm = &ExpenseFormModel{}
	return m.openForm(StateAddExpense, NewExpenseForm(m.expenseForm))
}

func (m *Model) openGoalsForm(month daykey.MonthKey) tea.Cmd {
	g, _ := m.app.Goals(month)
	m.goalsMonth = month
	m.goalsForm = &GoalsFormModel{
		Steps: strconv.Itoa(g.StepsGoal),
		Study: strconv.Itoa(g.StudyGoal),
	}
	return m.openForm(StateGoals, NewGoalsForm(month, m.goalsForm))
}

// updateForm drives the open form and applies it once completed.
func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.abortForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			m.status = err.Error()
		}
		m.closeForm()
		m.refresh()
	case huh.StateAborted:
		m.abortForm()
	}
	return cmd
}

func (m *Model) abortForm() {
	if m.state == StateGoals {
		m.status = fmt.Sprintf("Using default goals for %s", m.goalsMonth)
	}
	m.closeForm()
}

func (m *Model) submitForm() error {
	switch m.state {
	case StateEditDay:
		return m.applyDayForm(*m.dayForm)
	case StateAddTodo:
		return m.applyTodoForm(*m.todoForm)
	case StateAddExpense:
		return m.applyExpenseForm(*m.expenseForm)
	case StateGoals:
		return m.applyGoalsForm(m.goalsMonth, *m.goalsForm)
	}
	return nil
}

// applyDayForm saves the fields that changed in one write. A blank input
// clears a field that was set.
func (m *Model) applyDayForm(fm DayFormModel) error {
	key := m.calendar.Selected
	before := m.app.Day(key)
	var patch models.DayPatch

	if v := strings.TrimSpace(fm.Wake); v == "" {
		if before.WakeTime != "" {
			patch.Clear = append(patch.Clear, models.FieldWake)
		}
	} else if v != before.WakeTime {
		patch.WakeTime = &v
	}

	if v := strings.TrimSpace(fm.Sleep); v == "" {
		if before.SleepTime != "" {
			patch.Clear = append(patch.Clear, models.FieldSleep)
		}
	} else if v != before.SleepTime {
		patch.SleepTime = &v
	}

	if v := strings.TrimSpace(fm.Steps); v == "" {
		if before.Steps != nil {
			patch.Clear = append(patch.Clear, models.FieldSteps)
		}
	} else if n, err := strconv.Atoi(v); err != nil {
		return fmt.Errorf("steps: %w", err)
	} else if before.Steps == nil || *before.Steps != n {
		patch.Steps = &n
	}

	if v := strings.TrimSpace(fm.Study); v == "" {
		if before.StudyMin != nil {
			patch.Clear = append(patch.Clear, models.FieldStudy)
		}
	} else if n, err := strconv.Atoi(v); err != nil {
		return fmt.Errorf("study: %w", err)
	} else if before.StudyMin == nil || *before.StudyMin != n {
		patch.StudyMin = &n
	}

	if v := strings.TrimSpace(fm.Weight); v == "" {
		if before.Weight != nil {
			patch.Clear = append(patch.Clear, models.FieldWeight)
		}
	} else if w, err := strconv.ParseFloat(v, 64); err != nil {
		return fmt.Errorf("weight: %w", err)
	} else if before.Weight == nil || *before.Weight != w {
		patch.Weight = &w
	}

	if v := strings.TrimSpace(fm.Memo); v == "" {
		if before.Memo != "" {
			patch.Clear = append(patch.Clear, models.FieldMemo)
		}
	} else if v != before.Memo {
		patch.Memo = &v
	}

	if _, err := m.app.UpdateDay(key, patch); err != nil {
		return err
	}
	m.status = fmt.Sprintf("Saved %s", key)
	return nil
}

func (m *Model) applyTodoForm(fm TodoFormModel) error {
	t, err := m.app.AddTodo(m.calendar.Selected, strings.TrimSpace(fm.Text))
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("Added todo #%d", t.ID)
	return nil
}

func (m *Model) applyExpenseForm(fm ExpenseFormModel) error {
	amount, err := strconv.ParseInt(strings.TrimSpace(fm.Amount), 10, 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	e, err := m.app.AddExpense(m.calendar.Selected, amount, strings.TrimSpace(fm.Note))
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("Added expense ¥%d", e.Amount)
	return nil
}

func (m *Model) applyGoalsForm(month daykey.MonthKey, fm GoalsFormModel) error {
	steps, err := strconv.ParseFloat(strings.TrimSpace(fm.Steps), 64)
	if err != nil {
		return fmt.Errorf("steps goal: %w", err)
	}
	study, err := strconv.ParseFloat(strings.TrimSpace(fm.Study), 64)
	if err != nil {
		return fmt.Errorf("study goal: %w", err)
	}
	g, err := m.app.SetGoals(month, steps, study)
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("Goals for %s: %d steps, %d min study", month, g.StepsGoal, g.StudyGoal)
	return nil
}
