package days

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

type DayCmd struct {
	Show  DayShowCmd  `cmd:"" help:"Show everything recorded for a day." default:"withargs"`
	Set   DaySetCmd   `cmd:"" help:"Record day fields."`
	Clear DayClearCmd `cmd:"" help:"Clear day fields."`
}

type DayShowCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *DayShowCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	printDay(ctx, key)
	ctx.FlushWarnings()
	return nil
}

func printDay(ctx *cli.Context, key daykey.DayKey) {
	l := ctx.App.Day(key)
	ctx.Printf("%s (%s)\n\n", key, key.Weekday().String()[:3])

	if l.IsEmpty() {
		ctx.Println("  Nothing recorded")
	}
	if l.WakeTime != "" || l.SleepTime != "" {
		ctx.Printf("  Wake %-5s  Sleep %s\n", orDash(l.WakeTime), orDash(l.SleepTime))
	}
	if l.Steps != nil {
		ctx.Printf("  Steps   %6d  (%d%% of goal)\n", *l.Steps, ctx.App.StepsPercent(key))
	}
	if l.StudyMin != nil {
		ctx.Printf("  Study   %6d min  (%d%% of goal)\n", *l.StudyMin, ctx.App.StudyPercent(key))
	}
	if l.Weight != nil {
		ctx.Printf("  Weight  %6.1f kg\n", *l.Weight)
	}
	if len(l.Todos) > 0 {
		ctx.Println()
		ctx.Println("  Todos")
		printTodos(ctx, l.Todos)
	}
	if len(l.Expenses) > 0 {
		ctx.Println()
		ctx.Printf("  Expenses  %s\n", cli.FormatYen(ctx.App.DayTotal(key)))
		printExpenses(ctx, l.Expenses)
	}
	if len(l.Cleaning) > 0 {
		ctx.Println()
		ctx.Printf("  Cleaning  %s\n", models.CleaningStatusOf(l.Cleaning))
	}
	if l.Memo != "" {
		ctx.Println()
		ctx.Printf("  Memo  %s\n", l.Memo)
	}
	if _, ok := ctx.App.Photo(context.Background(), key); ok {
		ctx.Println()
		ctx.Println("  Photo attached")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type DaySetCmd struct {
	Date   string   `arg:"" optional:"" help:"Date to record (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
	Wake   *string  `help:"Wake time (HH:MM)."`
	Sleep  *string  `help:"Sleep time (HH:MM)."`
	Steps  *int     `help:"Step count."`
	Study  *int     `help:"Study minutes."`
	Weight *float64 `help:"Body weight in kg."`
	Memo   *string  `help:"Free-text memo."`
}

func (c *DaySetCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if c.Wake == nil && c.Sleep == nil && c.Steps == nil && c.Study == nil && c.Weight == nil && c.Memo == nil {
		return errors.New("nothing to set; pass at least one of --wake, --sleep, --steps, --study, --weight or --memo")
	}

	// validate everything before the first write
	for _, clock := range []*string{c.Wake, c.Sleep} {
		if clock != nil && *clock != "" && !models.ValidClock(*clock) {
			return fmt.Errorf("invalid time %q, use HH:MM", *clock)
		}
	}

	if c.Wake != nil {
		if _, err := ctx.App.SetWake(key, *c.Wake); err != nil {
			return err
		}
	}
	if c.Sleep != nil {
		if _, err := ctx.App.SetSleep(key, *c.Sleep); err != nil {
			return err
		}
	}
	if c.Steps != nil {
		if _, err := ctx.App.SetSteps(key, *c.Steps); err != nil {
			return err
		}
	}
	if c.Study != nil {
		if _, err := ctx.App.SetStudy(key, *c.Study); err != nil {
			return err
		}
	}
	if c.Weight != nil {
		if _, err := ctx.App.SetWeight(key, *c.Weight); err != nil {
			return err
		}
	}
	if c.Memo != nil {
		if _, err := ctx.App.SetMemo(key, *c.Memo); err != nil {
			return err
		}
	}

	ctx.Printf("✓ Updated %s\n", key)
	ctx.FlushWarnings()
	return nil
}

type DayClearCmd struct {
	Date   string   `arg:"" help:"Date to clear (YYYY-MM-DD, today, yesterday or tomorrow)."`
	Fields []string `arg:"" help:"Fields to clear: wake, sleep, steps, study, weight, memo, todos, expenses, cleaning."`
}

func (c *DayClearCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	for _, f := range c.Fields {
		if _, err := ctx.App.ClearField(key, models.Field(strings.ToLower(f))); err != nil {
			return err
		}
	}
	ctx.Printf("✓ Cleared %s on %s\n", strings.Join(c.Fields, ", "), key)
	ctx.FlushWarnings()
	return nil
}

func printTodos(ctx *cli.Context, todos []models.Todo) {
	for _, t := range todos {
		mark := "[ ]"
		if t.Done {
			mark = "[x]"
		}
		ctx.Printf("    %s %-4d %s\n", mark, t.ID, t.Text)
	}
}

func printExpenses(ctx *cli.Context, expenses []models.ExpenseItem) {
	for _, e := range expenses {
		ctx.Printf("    %-4d %10s  %s  %s\n", e.ID, cli.FormatYen(e.Amount), e.CreatedAt.Local().Format(constants.TimeFormat), e.Note)
	}
}
