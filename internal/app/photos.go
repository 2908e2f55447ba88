package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/photos"
)

// Photo returns the day's photo. Storage failures are reported as a warning
// and look like "no photo".
func (a *App) Photo(ctx context.Context, key daykey.DayKey) (photos.Photo, bool) {
	p, ok, err := a.photos.Get(ctx, key)
	if err != nil {
		a.warn("photo could not be loaded", "day", key, "error", err)
		return photos.Photo{}, false
	}
	return p, ok
}

// SetPhoto stores the day's photo. Rejected content is an error; storage
// failures are warnings.
func (a *App) SetPhoto(ctx context.Context, key daykey.DayKey, data []byte, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := a.photos.Put(ctx, key, data, contentType)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, photos.ErrTooLarge), errors.Is(err, photos.ErrEmpty), errors.Is(err, photos.ErrNotImage):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		a.warn("photo could not be saved", "day", key, "error", err)
		return nil
	}
}

// RemovePhoto deletes the day's photo.
func (a *App) RemovePhoto(ctx context.Context, key daykey.DayKey) {
	if err := a.photos.Delete(ctx, key); err != nil {
		a.warn("photo could not be removed", "day", key, "error", err)
	}
}
