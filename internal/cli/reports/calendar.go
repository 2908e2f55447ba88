package reports

import (
	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/tui/components/calendar"
)

type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month (YYYY-MM); defaults to the current month." default:"this"`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	month, err := ctx.ResolveMonth(c.Month)
	if err != nil {
		return err
	}
	today := ctx.App.Today()
	ctx.Printf("%s", calendar.Render(month, today, "", ctx.App.Decorate))
	ctx.Printf("\nMonth total %s\n", cli.FormatYen(ctx.App.MonthTotal(month)))
	return nil
}
