package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/matheus3301/convo/internal/store/migrations"
)

// ErrDirty means a previous migration failed halfway and the schema needs a
// manual fix before the session can start.
var ErrDirty = errors.New("store: schema is dirty")

// Migration reports the schema versions before and after Migrate.
type Migration struct {
	From uint
	To   uint
}

// Changed reports whether any migration ran.
func (m Migration) Changed() bool { return m.From != m.To }

// Migrate brings the schema to the newest embedded version.
func (db *DB) Migrate() (Migration, error) {
	m, err := db.migrator()
	if err != nil {
		return Migration{}, err
	}

	var res Migration
	from, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return res, fmt.Errorf("schema version: %w", err)
	case dirty:
		return res, fmt.Errorf("%w at version %d", ErrDirty, from)
	default:
		res.From = from
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return res, fmt.Errorf("migrate up: %w", err)
	}
	to, _, err := m.Version()
	if err != nil {
		return res, fmt.Errorf("schema version: %w", err)
	}
	res.To = to
	return res, nil
}

// The migrator shares db's connection, so it is never closed here.
func (db *DB) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("migration instance: %w", err)
	}
	return m, nil
}
