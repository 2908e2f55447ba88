package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/lock"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/migrations"
	"github.com/julianstephens/daylog/internal/photos"
	"github.com/julianstephens/daylog/internal/storage"
)

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
	statusSkip
)

type checkResult struct {
	name   string
	status checkStatus
	detail string
}

type check struct {
	name string
	run  func(ctx *cli.Context) (checkStatus, error)
}

type schemaReporter interface {
	SchemaStatus() (migrations.Status, error)
}

var checks = []check{
	{"Storage reachable", checkStorageReachable},
	{"Schema version", checkSchemaVersion},
	{"Day logs readable", checkDayLogs},
	{"Month goals readable", checkGoals},
	{"Photo store", checkPhotoStore},
	{"Backups present", checkBackupsPresent},
	{"Lockfile", checkLockfile},
	{"Log directory", checkLogDirectory},
	{"Clock/timezone", checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	results := make([]checkResult, len(checks))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(4)
	for i, c := range checks {
		g.Go(func() error {
			status, err := c.run(ctx)
			results[i] = checkResult{name: c.name, status: status}
			if err != nil {
				results[i].detail = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	hasError := false
	for _, r := range results {
		switch r.status {
		case statusOK:
			ctx.Printf("✓ %s: OK\n", r.name)
		case statusWarn:
			ctx.Printf("⚠ %s: WARNING\n", r.name)
			ctx.Printf("   %s\n", r.detail)
		case statusSkip:
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", r.name, r.detail)
		case statusFail:
			hasError = true
			ctx.Printf("❌ %s: FAIL\n", r.name)
			ctx.Printf("   Error: %s\n", r.detail)
			logger.Warn("health check failed", "check", r.name, "error", r.detail)
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) (checkStatus, error) {
	b := ctx.App.Backend()
	if kv.KindOf(b.Location()) == kv.KindMemory && ctx.Config.Kind() != kv.KindMemory {
		return statusFail, fmt.Errorf("configured storage %s could not be opened; this session runs in memory", ctx.Config.Storage)
	}
	if _, err := b.Slots(); err != nil {
		return statusFail, fmt.Errorf("failed to list slots: %w", err)
	}
	return statusOK, nil
}

func checkSchemaVersion(ctx *cli.Context) (checkStatus, error) {
	r, ok := ctx.App.Backend().(schemaReporter)
	if !ok {
		return statusSkip, errors.New("backend has no schema")
	}
	st, err := r.SchemaStatus()
	if err != nil {
		return statusFail, fmt.Errorf("failed to read schema version: %w", err)
	}
	if st.Dirty {
		return statusFail, fmt.Errorf("schema version %d is dirty", st.Version)
	}
	if st.Version > st.Latest {
		return statusFail, fmt.Errorf("schema version (%d) is newer than supported version (%d)", st.Version, st.Latest)
	}
	if st.Version < st.Latest {
		return statusFail, fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Version, st.Latest)
	}
	return statusOK, nil
}

// checkDayLogs loads a fresh store so corruption is reported even though
// the running app already fell back to an empty one.
func checkDayLogs(ctx *cli.Context) (checkStatus, error) {
	s := storage.NewDayLogStore(ctx.App.Backend())
	if err := s.Load(); err != nil {
		return statusFail, err
	}
	for _, key := range s.Keys() {
		if _, ok := key.Time(); !ok {
			return statusWarn, fmt.Errorf("day key %q is not a valid date and is ignored by reports", key)
		}
	}
	return statusOK, nil
}

func checkGoals(ctx *cli.Context) (checkStatus, error) {
	if err := storage.NewGoalsStore(ctx.App.Backend()).Load(); err != nil {
		return statusFail, err
	}
	return statusOK, nil
}

func checkPhotoStore(ctx *cli.Context) (checkStatus, error) {
	path := ctx.Config.Photos
	if path == "" {
		return statusSkip, errors.New("no photo store configured")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return statusSkip, errors.New("no photos stored yet")
	}

	store := photos.NewSQLiteStore(path)
	defer store.Close()
	if err := store.Open(); err != nil {
		return statusFail, fmt.Errorf("failed to open photo store: %w", err)
	}
	st, err := store.SchemaStatus()
	if err != nil {
		return statusFail, fmt.Errorf("failed to read photo schema version: %w", err)
	}
	if !st.Current() {
		return statusFail, fmt.Errorf("photo schema at version %d (dirty=%v), latest %d", st.Version, st.Dirty, st.Latest)
	}
	return statusOK, nil
}

func checkBackupsPresent(ctx *cli.Context) (checkStatus, error) {
	if ctx.Backups == nil {
		return statusSkip, errors.New("backups not configured")
	}
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return statusWarn, fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return statusWarn, errors.New("no backups found - consider creating one with 'daylog backup create'")
	}
	return statusOK, nil
}

func checkLockfile(ctx *cli.Context) (checkStatus, error) {
	owner, err := lock.Inspect(ctx.Config.ConfigDir)
	if errors.Is(err, os.ErrNotExist) {
		return statusOK, nil
	}
	if err != nil {
		return statusWarn, fmt.Errorf("lockfile is unreadable and will be replaced: %w", err)
	}
	if owner.PID == os.Getpid() {
		return statusOK, nil
	}
	if !owner.Running {
		return statusWarn, fmt.Errorf("stale lockfile from pid %d (since %s) will be replaced", owner.PID, owner.Since.Local().Format(time.DateTime))
	}
	return statusWarn, fmt.Errorf("daylog is running as pid %d", owner.PID)
}

func checkLogDirectory(ctx *cli.Context) (checkStatus, error) {
	dir := filepath.Dir(logger.Path(ctx.Config.ConfigDir))
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return statusWarn, fmt.Errorf("log directory %s does not exist yet", dir)
	}
	if err != nil {
		return statusFail, err
	}
	if !info.IsDir() {
		return statusFail, fmt.Errorf("%s is not a directory", dir)
	}
	return statusOK, nil
}

func checkClockTimezone(ctx *cli.Context) (checkStatus, error) {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return statusFail, fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	// day keys are local dates, so a UTC-only clock is worth knowing about
	if name, _ := now.Zone(); name == "UTC" && os.Getenv("TZ") == "" {
		return statusWarn, errors.New("local timezone is UTC; set TZ if days roll over at the wrong hour")
	}
	return statusOK, nil
}
