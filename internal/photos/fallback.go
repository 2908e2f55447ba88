package photos

import (
	"context"
	"sync"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/logger"
)

// Opener is a durable store that can report whether it is usable.
type Opener interface {
	Store
	Open() error
}

// Fallback serves from a durable store until it fails to open, then
// switches to memory for the rest of the process. Photos put before the
// switch are not migrated.
type Fallback struct {
	primary Opener
	memory  *MemoryStore
	warn    func(string)

	once     sync.Once
	degraded bool
}

// NewFallback wraps primary. warn receives a message when the switch to
// memory happens; it may be nil.
func NewFallback(primary Opener, warn func(string)) *Fallback {
	return &Fallback{primary: primary, memory: NewMemoryStore(), warn: warn}
}

func (f *Fallback) active() Store {
	f.once.Do(func() {
		if err := f.primary.Open(); err != nil {
			f.degraded = true
			logger.Warn("photo storage unavailable, keeping photos in memory", "error", err)
			if f.warn != nil {
				f.warn("photo storage unavailable; photos will not be saved after exit")
			}
		}
	})
	if f.degraded {
		return f.memory
	}
	return f.primary
}

// Degraded reports whether photos are being kept in memory.
func (f *Fallback) Degraded() bool {
	f.active()
	return f.degraded
}

func (f *Fallback) Get(ctx context.Context, key daykey.DayKey) (Photo, bool, error) {
	return f.active().Get(ctx, key)
}

func (f *Fallback) Put(ctx context.Context, key daykey.DayKey, data []byte, contentType string) error {
	return f.active().Put(ctx, key, data, contentType)
}

func (f *Fallback) Delete(ctx context.Context, key daykey.DayKey) error {
	return f.active().Delete(ctx, key)
}

func (f *Fallback) Close() error {
	return f.primary.Close()
}
