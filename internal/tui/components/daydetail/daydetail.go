package daydetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daylog/internal/aggregate"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Detail is everything the pane shows for one day.
type Detail struct {
	Key          daykey.DayKey
	Log          models.DayLog
	Goals        models.MonthGoals
	StepsPercent int
	StudyPercent int
	DayTotal     int64
	HasPhoto     bool
}

type Model struct {
	viewport viewport.Model
	bar      progress.Model
	Detail   *Detail
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Detail == nil {
		return "No day selected."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetDetail(d Detail) {
	m.Detail = &d
	m.render()
}

// Content is the unscrolled pane text.
func (m Model) Content() string {
	if m.Detail == nil {
		return ""
	}
	return Render(*m.Detail, m.bar)
}

func (m *Model) render() {
	m.viewport.SetContent(m.Content())
}

// Render lays out one day. Goal bars fill to at most 100% while the label
// keeps the real percentage.
func Render(d Detail, bar progress.Model) string {
	var b strings.Builder
	header := string(d.Key)
	if t, ok := d.Key.Time(); ok {
		header = t.Format("Monday, January 2 2006")
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	l := d.Log
	row(&b, "Wake", orDash(l.WakeTime))
	row(&b, "Sleep", orDash(l.SleepTime))

	steps := "—"
	if l.Steps != nil {
		steps = fmt.Sprintf("%d / %d", *l.Steps, d.Goals.StepsGoal)
	}
	row(&b, "Steps", steps)
	b.WriteString(goalBar(bar, d.StepsPercent))

	study := "—"
	if l.StudyMin != nil {
		study = fmt.Sprintf("%d / %d min", *l.StudyMin, d.Goals.StudyGoal)
	}
	row(&b, "Study", study)
	b.WriteString(goalBar(bar, d.StudyPercent))

	weight := "—"
	if l.Weight != nil {
		weight = fmt.Sprintf("%.1f kg", *l.Weight)
	}
	row(&b, "Weight", weight)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Expenses  ¥%d", d.DayTotal)))
	b.WriteString("\n")
	if len(l.Expenses) == 0 {
		b.WriteString(mutedStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, e := range l.Expenses {
		line := fmt.Sprintf("  ¥%d", e.Amount)
		if e.Note != "" {
			line += "  " + e.Note
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Cleaning"))
	b.WriteString("\n")
	for i, area := range models.CleaningAreas {
		mark := "[ ]"
		if l.Cleaning[area] {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %d %s %s\n", i+1, mark, strings.ReplaceAll(string(area), "_", " "))
	}

	if l.Memo != "" {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Memo"))
		b.WriteString("\n")
		b.WriteString(l.Memo)
		b.WriteString("\n")
	}
	if d.HasPhoto {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Photo attached"))
		b.WriteString("\n")
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func goalBar(bar progress.Model, percent int) string {
	fill := float64(aggregate.RingFill(percent)) / 100
	return fmt.Sprintf("%s%s %d%%\n", labelStyle.Render(""), bar.ViewAs(fill), percent)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
