package reports

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daylog/internal/aggregate"
	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/constants"
)

const barWidth = 30

type SeriesCmd struct {
	Limit         int  `short:"n" help:"Number of days; defaults to the configured series limit."`
	Chronological bool `short:"c" help:"Order by calendar date instead of first-recorded order."`
}

func (c *SeriesCmd) Run(ctx *cli.Context) error {
	limit := c.Limit
	if limit == 0 {
		limit = ctx.Config.SeriesLimit
	}
	if limit == 0 {
		limit = constants.DefaultSeriesLimit
	}
	if limit < 1 || limit > constants.MaxSeriesLimit {
		return fmt.Errorf("limit must be between 1 and %d", constants.MaxSeriesLimit)
	}

	points := ctx.App.Series(limit, c.Chronological)
	if len(points) == 0 {
		ctx.Println("No days recorded yet.")
		return nil
	}
	for _, line := range Bars(points, barWidth) {
		ctx.Println(line)
	}
	return nil
}

// Bars renders one text bar per point, scaled to the largest value.
func Bars(points []aggregate.Point, width int) []string {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Steps)
	}
	lines := make([]string, 0, len(points))
	for _, p := range points {
		n := 0
		if peak > 0 {
			n = p.Steps * width / peak
		}
		lines = append(lines, fmt.Sprintf("%6s %-*s %d", p.Label, width, strings.Repeat("█", n), p.Steps))
	}
	return lines
}
