package days

import (
	"strings"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/models"
)

type CleanCmd struct {
	Toggle CleanToggleCmd `cmd:"" help:"Toggle cleaning areas."`
	Reset  CleanResetCmd  `cmd:"" help:"Clear the day's cleaning checklist."`
	List   CleanListCmd   `cmd:"" help:"Show the day's cleaning checklist." default:"withargs"`
}

type CleanToggleCmd struct {
	Areas []string `arg:"" help:"Areas: kitchen, bathroom, toilet, living_room, laundry."`
	Date  string   `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *CleanToggleCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	for _, a := range c.Areas {
		area := models.CleaningArea(strings.ReplaceAll(strings.ToLower(a), "-", "_"))
		on, err := ctx.App.ToggleCleaning(key, area)
		if err != nil {
			return err
		}
		state := "not done"
		if on {
			state = "done"
		}
		ctx.Printf("✓ %s: %s\n", area, state)
	}
	ctx.FlushWarnings()
	return nil
}

type CleanResetCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *CleanResetCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.App.ResetCleaning(key); err != nil {
		return err
	}
	ctx.Printf("✓ Cleaning checklist cleared for %s\n", key)
	ctx.FlushWarnings()
	return nil
}

type CleanListCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *CleanListCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	state := ctx.App.Day(key).Cleaning
	ctx.Printf("Cleaning on %s (%s):\n", key, models.CleaningStatusOf(state))
	for _, area := range models.CleaningAreas {
		mark := "[ ]"
		if state[area] {
			mark = "[x]"
		}
		ctx.Printf("  %s %s\n", mark, area)
	}
	return nil
}
