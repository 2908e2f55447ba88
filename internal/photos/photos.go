// Package photos stores one image per day. A missing photo is a normal
// state, not an error.
package photos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/daykey"
)

var (
	ErrTooLarge = errors.New("photo exceeds size limit")
	ErrEmpty    = errors.New("photo is empty")
	ErrNotImage = errors.New("photo is not an image")
)

// Photo is a stored blob with its metadata.
type Photo struct {
	Key         daykey.DayKey
	BlobID      string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Store gets, puts and deletes the photo for a day.
type Store interface {
	// Get returns ok=false when the day has no photo.
	Get(ctx context.Context, key daykey.DayKey) (Photo, bool, error)
	// Put replaces the day's photo. An empty contentType is sniffed.
	Put(ctx context.Context, key daykey.DayKey, data []byte, contentType string) error
	// Delete removes the day's photo. Deleting a missing photo is not an error.
	Delete(ctx context.Context, key daykey.DayKey) error
	Close() error
}

// checkPhoto validates the blob and resolves its content type.
func checkPhoto(key daykey.DayKey, data []byte, contentType string) (string, error) {
	if _, err := daykey.Parse(string(key)); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > constants.MaxPhotoBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), constants.MaxPhotoBytes)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}
	return contentType, nil
}
