package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/daylog/internal/app"
	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/daykey"
	errs "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
)

type Context struct {
	App     *app.App
	Config  config.Config
	Backups *backup.Manager
	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Writer exposes the output stream for commands that render tables or JSON.
func (c *Context) Writer() io.Writer {
	return c.out()
}

// FlushWarnings prints every warning the app queued since the last flush.
func (c *Context) FlushWarnings() {
	errs.PrintWarnings(c.out(), c.App.Warnings())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Backups == nil {
		return
	}
	if _, err := c.Backups.CreateBackup(); err != nil && !errors.Is(err, backup.ErrNothingToBackup) {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDay accepts YYYY-MM-DD or one of today, yesterday and tomorrow.
func (c *Context) ResolveDay(s string) (daykey.DayKey, error) {
	today := c.App.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.Prev(), nil
	case "tomorrow":
		return today.Next(), nil
	}
	key, err := daykey.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, today, yesterday or tomorrow", s)
	}
	return key, nil
}

// ResolveMonth accepts YYYY-MM or "this"/empty for the current month.
func (c *Context) ResolveMonth(s string) (daykey.MonthKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "this", "current":
		month, _ := c.App.Today().Month()
		return month, nil
	}
	month, err := daykey.ParseMonth(s)
	if err != nil {
		return "", fmt.Errorf("invalid month %q, use YYYY-MM", s)
	}
	return month, nil
}

// FormatYen renders a whole-yen amount with thousands separators.
func FormatYen(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "¥" + b.String()
}
