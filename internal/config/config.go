// Package config resolves where daylog keeps its data and how it behaves,
// from flags, the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/kv"
)

// PostgresKeyword selects Postgres with the connection string taken from
// DAYLOG_DB_CONNECTION or the OS keyring.
const PostgresKeyword = "postgres"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved runtime configuration.
type Config struct {
	// Storage is a directory, a SQLite file, a postgres:// URL, ":memory:"
	// or PostgresKeyword.
	Storage     string
	Photos      string
	ConfigDir   string
	Debug       bool
	SeriesLimit int
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// Resolve expands ~ in every path and fills defaults.
func (c Config) Resolve() (Config, error) {
	var err error
	if c.ConfigDir == "" {
		c.ConfigDir = constants.DefaultConfigDir
	}
	if c.ConfigDir, err = ExpandHome(c.ConfigDir); err != nil {
		return c, err
	}
	if c.Storage == "" {
		c.Storage = filepath.Join(c.ConfigDir, constants.DefaultStorageName)
	}
	if kind := c.Kind(); kind == kv.KindFile || kind == kv.KindSQLite {
		if c.Storage, err = ExpandHome(c.Storage); err != nil {
			return c, err
		}
	}
	if c.Photos == "" {
		c.Photos = filepath.Join(c.ConfigDir, constants.DefaultPhotoDBName)
	}
	if c.Photos, err = ExpandHome(c.Photos); err != nil {
		return c, err
	}
	if c.SeriesLimit == 0 {
		c.SeriesLimit = constants.DefaultSeriesLimit
	}
	return c, nil
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage) == "" {
		return fmt.Errorf("%w: storage location is empty", ErrInvalidConfig)
	}
	if c.SeriesLimit < 1 || c.SeriesLimit > constants.MaxSeriesLimit {
		return fmt.Errorf("%w: series limit %d must be between 1 and %d", ErrInvalidConfig, c.SeriesLimit, constants.MaxSeriesLimit)
	}
	if c.Kind() == kv.KindPostgres && c.Storage != PostgresKeyword {
		if valid, err := kv.ValidateConnString(c.Storage); !valid {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Kind returns the backend kind the storage location selects.
func (c Config) Kind() kv.Kind {
	if c.Storage == PostgresKeyword {
		return kv.KindPostgres
	}
	return kv.KindOf(c.Storage)
}

// Backend builds the slot backend. resolveConn supplies the connection
// string when Storage is PostgresKeyword; that string comes from a secret
// store and may carry a password.
func (c Config) Backend(resolveConn func() (string, error)) (kv.Backend, error) {
	if c.Storage != PostgresKeyword {
		return kv.FromLocation(c.Storage)
	}
	if resolveConn == nil {
		return nil, fmt.Errorf("%w: no connection resolver", ErrInvalidConfig)
	}
	connStr, err := resolveConn()
	if err != nil {
		return nil, err
	}
	return kv.NewPostgresBackend(connStr), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
