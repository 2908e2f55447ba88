package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/migrations"
)

// SQLiteStore keeps photos in their own SQLite file, separate from the
// journal slots. The database is opened on first use and reused.
type SQLiteStore struct {
	path string

	mu      sync.Mutex
	db      *sql.DB
	openErr error
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	if s.openErr != nil {
		return nil, s.openErr
	}

	db, err := s.open()
	if err != nil {
		s.openErr = err
		return nil, err
	}
	s.db = db
	return db, nil
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	if err := migrations.UpSQLite(s.path, migrations.Photos); err != nil {
		return nil, fmt.Errorf("failed to run photo migrations: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to photo database: %w", err)
	}
	return db, nil
}

// Open forces the lazy open and reports its error.
func (s *SQLiteStore) Open() error {
	_, err := s.conn()
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key daykey.DayKey) (Photo, bool, error) {
	db, err := s.conn()
	if err != nil {
		return Photo{}, false, err
	}

	p := Photo{Key: key}
	var created string
	err = db.QueryRowContext(ctx,
		"SELECT blob_id, content_type, data, created_at FROM photos WHERE day_key = ?",
		string(key),
	).Scan(&p.BlobID, &p.ContentType, &p.Data, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Photo{}, false, nil
		}
		return Photo{}, false, fmt.Errorf("failed to read photo for %s: %w", key, err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		p.CreatedAt = t
	}
	return p, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key daykey.DayKey, data []byte, contentType string) error {
	contentType, err := checkPhoto(key, data, contentType)
	if err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO photos (day_key, blob_id, content_type, data, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(day_key) DO UPDATE SET
		   blob_id = excluded.blob_id,
		   content_type = excluded.content_type,
		   data = excluded.data,
		   size = excluded.size,
		   created_at = excluded.created_at`,
		string(key), uuid.New().String(), contentType, data, len(data),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store photo for %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key daykey.DayKey) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM photos WHERE day_key = ?", string(key)); err != nil {
		return fmt.Errorf("failed to delete photo for %s: %w", key, err)
	}
	return nil
}

// Keys lists every day with a photo, oldest first.
func (s *SQLiteStore) Keys(ctx context.Context) ([]daykey.DayKey, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT day_key FROM photos ORDER BY day_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var keys []daykey.DayKey
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to list photos: %w", err)
		}
		keys = append(keys, daykey.DayKey(k))
	}
	return keys, rows.Err()
}

// SchemaStatus reports the migration state of the photo database.
func (s *SQLiteStore) SchemaStatus() (migrations.Status, error) {
	return migrations.StatusOf("sqlite", s.path, migrations.Photos)
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
