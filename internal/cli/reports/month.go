package reports

import (
	"fmt"

	"github.com/julianstephens/daylog/internal/cli"
)

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month (YYYY-MM); defaults to the current month." default:"this"`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	month, err := ctx.ResolveMonth(c.Month)
	if err != nil {
		return err
	}
	s := ctx.App.Summary(month)

	ctx.Printf("Summary for %s\n\n", month)
	ctx.Printf("  Days recorded  %d\n", s.DaysRecorded)
	ctx.Printf("  Expenses       %s\n", cli.FormatYen(s.ExpenseTotal))
	ctx.Printf("  Steps          avg %d / goal %d (%d%%) over %d day(s)\n", s.StepsAverage(), s.Goals.StepsGoal, s.StepsPercent, s.StepsDays)
	ctx.Printf("  Study          avg %d min / goal %d (%d%%) over %d day(s)\n", s.StudyAverage(), s.Goals.StudyGoal, s.StudyPercent, s.StudyDays)
	if s.WeightMin != nil {
		ctx.Printf("  Weight         %s\n", weightRange(*s.WeightMin, *s.WeightMax))
	}
	ctx.Printf("  Todos          %d done, %d open\n", s.TodosDone, s.TodosOpen)
	return nil
}

func weightRange(lo, hi float64) string {
	if lo == hi {
		return fmt.Sprintf("%.1f kg", lo)
	}
	return fmt.Sprintf("%.1f – %.1f kg", lo, hi)
}
