package reports

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daylog/internal/aggregate"
	"github.com/julianstephens/daylog/internal/app"
	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/ids"
	"github.com/julianstephens/daylog/internal/kv"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	a := app.New(app.Options{
		Backend: kv.NewMemoryBackend(),
		IDs:     ids.NewSequence(0),
		Now:     func() time.Time { return time.Date(2024, 3, 5, 8, 0, 0, 0, time.Local) },
	})
	a.Open()
	out := &bytes.Buffer{}
	return &cli.Context{App: a, Config: config.Config{SeriesLimit: 14}, Out: out}, out
}

func TestGoalsSetAndShow(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&GoalsShowCmd{Month: "this"}).Run(ctx); err != nil {
		t.Fatalf("goals show failed: %v", err)
	}
	if !strings.Contains(out.String(), "10000 / day") || !strings.Contains(out.String(), "defaults") {
		t.Errorf("expected defaults with a setup hint:\n%s", out.String())
	}

	if err := (&GoalsSetCmd{Steps: 8000, Study: 60, Month: "this"}).Run(ctx); err != nil {
		t.Fatalf("goals set failed: %v", err)
	}
	if _, err := ctx.App.SetSteps("2024-03-05", 4000); err != nil {
		t.Fatalf("SetSteps failed: %v", err)
	}
	if pct := ctx.App.StepsPercent("2024-03-05"); pct != 50 {
		t.Errorf("expected 50%%, got %d", pct)
	}

	out.Reset()
	if err := (&GoalsShowCmd{Month: "2024-03"}).Run(ctx); err != nil {
		t.Fatalf("goals show failed: %v", err)
	}
	if strings.Contains(out.String(), "defaults") {
		t.Errorf("goals are set, no hint expected:\n%s", out.String())
	}

	if err := (&GoalsSetCmd{Steps: 1, Study: 1, Month: "March"}).Run(ctx); err == nil {
		t.Error("expected an error for a bad month")
	}
}

func TestMonthSummary(t *testing.T) {
	ctx, out := setupTestContext(t)
	if _, err := ctx.App.AddExpense("2024-03-01", 1200, "lunch"); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if _, err := ctx.App.AddExpense("2024-03-01", 300, "coffee"); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if _, err := ctx.App.SetWeight("2024-03-02", 61.5); err != nil {
		t.Fatalf("SetWeight failed: %v", err)
	}

	if err := (&MonthCmd{Month: "2024-03"}).Run(ctx); err != nil {
		t.Fatalf("month failed: %v", err)
	}
	for _, want := range []string{"Days recorded  2", "¥1,500", "61.5 kg"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSeries(t *testing.T) {
	ctx, out := setupTestContext(t)
	for _, d := range []struct {
		key   daykey.DayKey
		steps int
	}{{"2024-03-10", 100}, {"2024-03-01", 200}, {"2024-03-05", 400}} {
		if _, err := ctx.App.SetSteps(d.key, d.steps); err != nil {
			t.Fatalf("SetSteps failed: %v", err)
		}
	}

	if err := (&SeriesCmd{Limit: 2, Chronological: true}).Run(ctx); err != nil {
		t.Fatalf("series failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "3/5") || !strings.Contains(lines[1], "3/10") {
		t.Errorf("unexpected chronological series:\n%s", out.String())
	}

	if err := (&SeriesCmd{Limit: 1000}).Run(ctx); err == nil {
		t.Error("expected an error for an out-of-range limit")
	}
}

func TestBars(t *testing.T) {
	points := []aggregate.Point{{Label: "3/1", Steps: 0}, {Label: "3/2", Steps: 5000}, {Label: "3/3", Steps: 10000}}
	lines := Bars(points, 10)

	if strings.Count(lines[0], "█") != 0 || strings.Count(lines[1], "█") != 5 || strings.Count(lines[2], "█") != 10 {
		t.Errorf("unexpected bars:\n%s", strings.Join(lines, "\n"))
	}
	if got := Bars([]aggregate.Point{{Label: "3/1"}}, 10); strings.Count(got[0], "█") != 0 {
		t.Error("all-zero series should draw empty bars")
	}
}

func TestCalendar(t *testing.T) {
	ctx, out := setupTestContext(t)
	if _, err := ctx.App.SetWake("2024-03-05", "06:45"); err != nil {
		t.Fatalf("SetWake failed: %v", err)
	}

	if err := (&CalendarCmd{Month: "this"}).Run(ctx); err != nil {
		t.Fatalf("calendar failed: %v", err)
	}
	if !strings.Contains(out.String(), "March 2024") || !strings.Contains(out.String(), "06:45") {
		t.Errorf("unexpected calendar:\n%s", out.String())
	}

	if err := (&CalendarCmd{Month: "2024-3"}).Run(ctx); err == nil {
		t.Error("expected an error for a non-canonical month")
	}
}

func TestGoalsSetRejectsInvalidMonth(t *testing.T) {
	ctx, _ := setupTestContext(t)
	_, err := ctx.App.SetGoals("2024-00", 1, 1)
	if !errors.Is(err, app.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
