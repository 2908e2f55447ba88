package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daylog/internal/app"
	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/cli/backups"
	"github.com/julianstephens/daylog/internal/cli/days"
	"github.com/julianstephens/daylog/internal/cli/reports"
	"github.com/julianstephens/daylog/internal/cli/system"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/keyring"
	"github.com/julianstephens/daylog/internal/lock"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/photos"
)

var CLI struct {
	Version     kong.VersionFlag
	Storage     string `help:"Storage location: a directory, a .db file, ':memory:', a postgres:// URL without credentials, or 'postgres' to read the connection string from ${env_db_connection} or the OS keyring." env:"${env_storage}"`
	Photos      string `help:"Photo database file." env:"${env_photos}"`
	ConfigDir   string `help:"Config directory for logs, backups and the lockfile." env:"${env_config_dir}" default:"${default_config_dir}"`
	Debug       bool   `help:"Enable debug logging to stderr." env:"${env_debug}"`
	SeriesLimit int    `help:"Default number of days in the steps series." env:"${env_series_limit}" default:"${default_series_limit}"`

	Init     system.InitCmd      `cmd:"" help:"Initialize daylog storage."`
	Tui      system.TuiCmd       `cmd:"" help:"Launch the interactive journal." default:"1"`
	Day      days.DayCmd         `cmd:"" help:"Show and record day fields."`
	Todo     days.TodoCmd        `cmd:"" help:"Manage a day's todos."`
	Expense  days.ExpenseCmd     `cmd:"" help:"Manage a day's expenses."`
	Clean    days.CleanCmd       `cmd:"" help:"Manage a day's cleaning checklist."`
	Photo    days.PhotoCmd       `cmd:"" help:"Attach, export or remove a day's photo."`
	Goals    reports.GoalsCmd    `cmd:"" help:"Show and set month goals."`
	Month    reports.MonthCmd    `cmd:"" help:"Summarize a month."`
	Series   reports.SeriesCmd   `cmd:"" help:"Chart recent daily steps."`
	Calendar reports.CalendarCmd `cmd:"" help:"Print a month calendar."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage journal backups."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// readOnly reports whether a command leaves the journal untouched and can
// run alongside another daylog process.
func readOnly(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "doctor", "debug", "keyring", "month", "series", "calendar":
		return true
	}
	for _, f := range fields[1:] {
		switch f {
		case "show", "list", "get":
			return true
		}
	}
	return false
}

func vars() kong.Vars {
	return kong.Vars{
		"version":              constants.Version,
		"env_config_dir":       constants.EnvConfigDir,
		"env_storage":          constants.EnvStorage,
		"env_photos":           constants.EnvPhotos,
		"env_debug":            constants.EnvDebug,
		"env_series_limit":     constants.EnvSeriesLimit,
		"env_db_connection":    constants.EnvDBConnection,
		"default_config_dir":   constants.DefaultConfigDir,
		"default_series_limit": strconv.Itoa(constants.DefaultSeriesLimit),
	}
}

func main() {
	configDir := os.Getenv(constants.EnvConfigDir)
	if configDir == "" {
		configDir = constants.DefaultConfigDir
	}
	if dir, err := config.ExpandHome(configDir); err == nil {
		if err := config.LoadDotEnv(".env", filepath.Join(dir, ".env")); err != nil {
			errors.Fatal(err)
		}
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily life journal: wake and sleep times, steps, study, weight, todos, expenses and cleaning."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		vars(),
	)

	if err := run(ctx); err != nil {
		errors.Fatal(err)
	}
}

func run(ctx *kong.Context) error {
	cfg, err := config.Config{
		Storage:     CLI.Storage,
		Photos:      CLI.Photos,
		ConfigDir:   CLI.ConfigDir,
		Debug:       CLI.Debug,
		SeriesLimit: CLI.SeriesLimit,
	}.Resolve()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := cfg.Backend(keyring.ResolveConnectionString)
	if err != nil {
		return err
	}

	if !readOnly(ctx.Command()) {
		l, err := lock.Acquire(cfg.ConfigDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := l.Release(); err != nil {
				logger.Warn("Failed to release lockfile", "error", err)
			}
		}()
	}

	var a *app.App
	photoStore := photos.NewFallback(photos.NewSQLiteStore(cfg.Photos), func(msg string) {
		a.Notify(msg)
	})
	a = app.New(app.Options{Backend: backend, Photos: photoStore})
	a.Open()
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	appCtx := &cli.Context{
		App:     a,
		Config:  cfg,
		Backups: backup.NewManager(a.Backend(), cfg.ConfigDir),
		Out:     os.Stdout,
	}
	defer appCtx.FlushWarnings()

	logger.Debug("running command", "command", ctx.Command(), "storage", backend.Location())
	return ctx.Run(appCtx)
}
