// Package app is the single owner of daylog's state. Every read and write of
// the day log and month goal stores goes through an App, one call at a time.
//
// Invalid input is reported as an error and nothing changes. Storage trouble
// never fails an action: the in-memory state is updated, the problem is
// logged, and a message is queued for Warnings.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/ids"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/photos"
	"github.com/julianstephens/daylog/internal/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Options wires an App. Zero fields get working defaults: an in-memory
// backend and photo store, a clock-seeded id source and time.Now.
type Options struct {
	Backend kv.Backend
	Photos  photos.Store
	IDs     ids.Generator
	Now     func() time.Time
}

type App struct {
	backend kv.Backend
	logs    *storage.DayLogStore
	goals   *storage.GoalsStore
	photos  photos.Store
	ids     ids.Generator
	now     func() time.Time

	warnings []string
}

func New(opts Options) *App {
	if opts.Backend == nil {
		opts.Backend = kv.NewMemoryBackend()
	}
	if opts.Photos == nil {
		opts.Photos = photos.NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = ids.NewClock(opts.Now)
	}
	return &App{
		backend: opts.Backend,
		logs:    storage.NewDayLogStore(opts.Backend),
		goals:   storage.NewGoalsStore(opts.Backend),
		photos:  opts.Photos,
		ids:     opts.IDs,
		now:     opts.Now,
	}
}

// Open connects the backend and loads both stores. A backend that cannot be
// opened is replaced by memory so the session still works; corrupt data
// loads as empty. Both cases only produce warnings.
func (a *App) Open() {
	if err := a.backend.Open(); err != nil {
		a.warn("storage is unavailable; changes will not be saved", "location", a.backend.Location(), "error", err)
		a.backend = kv.NewMemoryBackend()
		a.logs = storage.NewDayLogStore(a.backend)
		a.goals = storage.NewGoalsStore(a.backend)
	}

	if err := a.logs.Load(); err != nil {
		a.warn("day logs could not be loaded and start empty", "error", err)
	}
	if err := a.goals.Load(); err != nil {
		a.warn("month goals could not be loaded and start empty", "error", err)
	}
	logger.Debug("stores loaded", "days", a.logs.Len(), "location", a.backend.Location())
}

func (a *App) Close() error {
	return errors.Join(a.photos.Close(), a.backend.Close())
}

// Backend is the slot backend currently in use.
func (a *App) Backend() kv.Backend {
	return a.backend
}

// Today is the key of the current local day.
func (a *App) Today() daykey.DayKey {
	return daykey.FromTime(a.now())
}

// Warnings returns and clears the queued user-facing warnings.
func (a *App) Warnings() []string {
	w := a.warnings
	a.warnings = nil
	return w
}

func (a *App) warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
	a.warnings = append(a.warnings, msg)
}

// persisted turns a store error into a warning. Key errors are the
// caller's fault and are returned.
func (a *App) persisted(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrInvalidKey):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		a.warn("changes could not be saved and will be lost on exit", "error", err)
		return nil
	}
}

func checkKey(key daykey.DayKey) error {
	if _, err := daykey.Parse(string(key)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Notify queues a warning raised outside the App, such as by the photo store.
func (a *App) Notify(msg string) {
	a.warnings = append(a.warnings, msg)
}
