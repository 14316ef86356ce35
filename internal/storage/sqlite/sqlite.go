// Package sqlite is the embedded single-file database backend, built on the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/adhamfakhereldeen/Cyber/internal/filex"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/sqlite/migrations"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/sqlstore"
	_ "modernc.org/sqlite"
)

// Dialect is the sqlstore dialect for sqlite.
var Dialect = sqlstore.Dialect{
	Goose:      "sqlite3",
	Migrations: migrations.Migrations,
}

// Open opens (creating if needed) the database file at path and applies
// migrations.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	if path != ":memory:" {
		if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// one connection keeps ":memory:" databases coherent and serialises writers
	db.SetMaxOpenConns(1)

	store := sqlstore.New(db, Dialect)
	if err := store.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
