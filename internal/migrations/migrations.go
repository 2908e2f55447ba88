// Package migrations embeds the SQL schemas of every database daylog writes
// and applies them with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed sqlite/*.sql postgres/*.sql photos/*.sql
var FS embed.FS

// Set names one directory of migrations.
type Set string

const (
	SlotsSQLite   Set = "sqlite"
	SlotsPostgres Set = "postgres"
	Photos        Set = "photos"
)

// Table is the version table of the set. Each set keeps its own so that
// sets sharing one database file do not see each other's versions.
func (s Set) Table() string {
	return "schema_migrations_" + string(s)
}

// Status describes the schema state of a database.
type Status struct {
	Version uint
	Dirty   bool
	Latest  uint
}

// Current reports whether the database is at the latest version and clean.
func (s Status) Current() bool {
	return !s.Dirty && s.Version == s.Latest
}

// UpSQLite applies a migration set to the SQLite database at path. A
// separate connection is used because closing the migrator closes it.
func UpSQLite(path string, set Set) error {
	return withMigrator("sqlite", path, set, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// UpPostgres applies a migration set to the Postgres database at connStr.
func UpPostgres(connStr string, set Set) error {
	return withMigrator("postgres", connStr, set, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// StatusOf reports the schema version of a database without migrating it.
func StatusOf(driverName, dsn string, set Set) (Status, error) {
	latest, err := LatestVersion(set)
	if err != nil {
		return Status{}, err
	}

	st := Status{Latest: latest}
	err = withMigrator(driverName, dsn, set, func(m *migrate.Migrate) error {
		v, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				return nil
			}
			return fmt.Errorf("read schema version: %w", err)
		}
		st.Version = v
		st.Dirty = dirty
		return nil
	})
	return st, err
}

// LatestVersion returns the highest migration version in a set.
func LatestVersion(set Set) (uint, error) {
	src, err := iofs.New(FS, string(set))
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("read first migration: %w", err)
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			// io/fs ErrNotExist marks the end of the chain
			return v, nil
		}
		v = next
	}
}

func withMigrator(driverName, dsn string, set Set, fn func(*migrate.Migrate) error) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	var driver database.Driver
	switch driverName {
	case "sqlite":
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: set.Table()})
	case "postgres":
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: set.Table()})
	default:
		err = fmt.Errorf("unsupported migration driver %q", driverName)
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("create %s driver: %w", driverName, err)
	}

	src, err := iofs.New(FS, string(set))
	if err != nil {
		driver.Close()
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		src.Close()
		driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	return fn(m)
}
