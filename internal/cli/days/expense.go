package days

import (
	"strings"

	"github.com/julianstephens/daylog/internal/cli"
)

type ExpenseCmd struct {
	Add  ExpenseAddCmd  `cmd:"" help:"Record an expense."`
	Rm   ExpenseRmCmd   `cmd:"" help:"Remove an expense."`
	List ExpenseListCmd `cmd:"" help:"List a day's expenses." default:"withargs"`
}

type ExpenseAddCmd struct {
	Amount int64    `arg:"" help:"Amount in whole yen."`
	Note   []string `arg:"" optional:"" help:"Optional note."`
	Date   string   `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *ExpenseAddCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	item, err := ctx.App.AddExpense(key, c.Amount, strings.Join(c.Note, " "))
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added expense %d on %s: %s (day total %s)\n", item.ID, key, cli.FormatYen(item.Amount), cli.FormatYen(ctx.App.DayTotal(key)))
	ctx.FlushWarnings()
	return nil
}

type ExpenseRmCmd struct {
	ID   int64  `arg:"" help:"Expense ID."`
	Date string `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *ExpenseRmCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.App.RemoveExpense(key, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Removed expense %d from %s\n", c.ID, key)
	ctx.FlushWarnings()
	return nil
}

type ExpenseListCmd struct {
	Date  string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
	Month bool   `short:"m" help:"Also show the month total."`
}

func (c *ExpenseListCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	expenses := ctx.App.Day(key).Expenses
	if len(expenses) == 0 {
		ctx.Printf("No expenses on %s.\n", key)
	} else {
		ctx.Printf("Expenses on %s:\n", key)
		printExpenses(ctx, expenses)
		ctx.Printf("\n  Day total    %s\n", cli.FormatYen(ctx.App.DayTotal(key)))
	}
	if c.Month {
		if month, ok := key.Month(); ok {
			ctx.Printf("  Month total  %s\n", cli.FormatYen(ctx.App.MonthTotal(month)))
		}
	}
	return nil
}
