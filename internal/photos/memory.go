package photos

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daylog/internal/daykey"
)

// MemoryStore keeps photos for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	photos map[daykey.DayKey]Photo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{photos: make(map[daykey.DayKey]Photo)}
}

func (s *MemoryStore) Get(ctx context.Context, key daykey.DayKey) (Photo, bool, error) {
	if err := ctx.Err(); err != nil {
		return Photo{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[key]
	if !ok {
		return Photo{}, false, nil
	}
	p.Data = slices.Clone(p.Data)
	return p, true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key daykey.DayKey, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	contentType, err := checkPhoto(key, data, contentType)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[key] = Photo{
		Key:         key,
		BlobID:      uuid.New().String(),
		ContentType: contentType,
		Data:        slices.Clone(data),
		CreatedAt:   time.Now().UTC(),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key daykey.DayKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.photos, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
