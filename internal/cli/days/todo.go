package days

import (
	"strings"

	"github.com/julianstephens/daylog/internal/carryover"
	"github.com/julianstephens/daylog/internal/cli"
)

type TodoCmd struct {
	Add   TodoAddCmd   `cmd:"" help:"Add a todo."`
	Done  TodoDoneCmd  `cmd:"" help:"Toggle a todo between pending and done."`
	Rm    TodoRmCmd    `cmd:"" help:"Remove a todo."`
	List  TodoListCmd  `cmd:"" help:"List a day's todos." default:"withargs"`
	Carry TodoCarryCmd `cmd:"" help:"Move unfinished todos to the next day."`
}

type TodoAddCmd struct {
	Text []string `arg:"" help:"Todo text."`
	Date string   `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *TodoAddCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	todo, err := ctx.App.AddTodo(key, strings.Join(c.Text, " "))
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added todo %d on %s: %s\n", todo.ID, key, todo.Text)
	ctx.FlushWarnings()
	return nil
}

type TodoDoneCmd struct {
	ID   int64  `arg:"" help:"Todo ID."`
	Date string `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *TodoDoneCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	todo, err := ctx.App.ToggleTodo(key, c.ID)
	if err != nil {
		return err
	}
	state := "pending"
	if todo.Done {
		state = "done"
	}
	ctx.Printf("✓ %s is %s\n", todo.Text, state)
	ctx.FlushWarnings()
	return nil
}

type TodoRmCmd struct {
	ID   int64  `arg:"" help:"Todo ID."`
	Date string `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *TodoRmCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.App.RemoveTodo(key, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Removed todo %d from %s\n", c.ID, key)
	ctx.FlushWarnings()
	return nil
}

type TodoListCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *TodoListCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	todos := ctx.App.Day(key).Todos
	if len(todos) == 0 {
		ctx.Printf("No todos on %s.\n", key)
		return nil
	}
	ctx.Printf("Todos on %s:\n", key)
	printTodos(ctx, todos)
	return nil
}

type TodoCarryCmd struct {
	Date string `arg:"" optional:"" help:"Day to carry from (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *TodoCarryCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	res, err := ctx.App.CarryOver(key)
	if err != nil {
		return err
	}
	if res.Outcome == carryover.Unchanged {
		ctx.Printf("Nothing to carry over from %s.\n", key)
		return nil
	}
	ctx.Printf("✓ Moved %d todo(s) from %s to %s (%d done kept)\n", len(res.Carried), res.From, res.To, res.Kept)
	ctx.FlushWarnings()
	return nil
}
