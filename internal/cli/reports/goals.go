package reports

import (
	"github.com/julianstephens/daylog/internal/cli"
)

type GoalsCmd struct {
	Set  GoalsSetCmd  `cmd:"" help:"Set a month's step and study goals."`
	Show GoalsShowCmd `cmd:"" help:"Show a month's goals." default:"withargs"`
}

type GoalsSetCmd struct {
	Steps float64 `arg:"" help:"Daily step goal."`
	Study float64 `arg:"" help:"Daily study goal in minutes."`
	Month string  `short:"m" help:"Month (YYYY-MM); defaults to the current month." default:"this"`
}

func (c *GoalsSetCmd) Run(ctx *cli.Context) error {
	month, err := ctx.ResolveMonth(c.Month)
	if err != nil {
		return err
	}
	g, err := ctx.App.SetGoals(month, c.Steps, c.Study)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Goals for %s: %d steps, %d min study\n", month, g.StepsGoal, g.StudyGoal)
	ctx.FlushWarnings()
	return nil
}

type GoalsShowCmd struct {
	Month string `arg:"" optional:"" help:"Month (YYYY-MM); defaults to the current month." default:"this"`
}

func (c *GoalsShowCmd) Run(ctx *cli.Context) error {
	month, err := ctx.ResolveMonth(c.Month)
	if err != nil {
		return err
	}
	g, needsSetup := ctx.App.Goals(month)
	ctx.Printf("Goals for %s:\n", month)
	ctx.Printf("  Steps  %d / day\n", g.StepsGoal)
	ctx.Printf("  Study  %d min / day\n", g.StudyGoal)
	if needsSetup {
		ctx.Println()
		ctx.Println("These are the defaults. Set this month's goals with 'daylog goals set'.")
	}
	return nil
}
