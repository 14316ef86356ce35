// Package postgres is the PostgreSQL backend, using the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/storage/postgres/migrations"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/sqlstore"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect is the sqlstore dialect for PostgreSQL.
var Dialect = sqlstore.Dialect{
	Goose:      "pgx",
	Migrations: migrations.Migrations,
	Rebind:     sqlstore.Dollar,
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to dsn, pings it and applies migrations.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	store := sqlstore.New(db, Dialect)
	if err := store.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection without running migrations.
func New(db *sql.DB) *sqlstore.Store {
	return sqlstore.New(db, Dialect)
}
