package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daylog/internal/migrations"
)

// SQLiteBackend stores slots as rows of a single table.
type SQLiteBackend struct {
	path string
	db   *sql.DB
}

func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

func (b *SQLiteBackend) Open() error {
	if b.db != nil {
		return nil
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(b.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := migrations.UpSQLite(b.path, migrations.SlotsSQLite); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	b.db = db
	return nil
}

func (b *SQLiteBackend) Read(slot string) (string, bool, error) {
	if b.db == nil {
		return "", false, ErrNotOpen
	}
	if err := checkSlot(slot); err != nil {
		return "", false, err
	}

	var value string
	err := b.db.QueryRow("SELECT value FROM slots WHERE name = ?", slot).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	return value, true, nil
}

func (b *SQLiteBackend) Write(slot, value string) error {
	if b.db == nil {
		return ErrNotOpen
	}
	if err := checkSlot(slot); err != nil {
		return err
	}

	_, err := b.db.Exec(
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		slot, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	return nil
}

func (b *SQLiteBackend) Slots() ([]string, error) {
	if b.db == nil {
		return nil, ErrNotOpen
	}
	return querySlots(b.db, "SELECT name FROM slots ORDER BY name")
}

func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

func (b *SQLiteBackend) Location() string {
	return b.path
}

// SchemaStatus reports the migration state of the database file.
func (b *SQLiteBackend) SchemaStatus() (migrations.Status, error) {
	return migrations.StatusOf("sqlite", b.path, migrations.SlotsSQLite)
}

func querySlots(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to list slots: %w", err)
		}
		slots = append(slots, name)
	}
	return slots, rows.Err()
}
