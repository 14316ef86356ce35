// Package sqlstore persists clinic snapshots in a relational database. It is
// shared by the sqlite and postgres backends, which supply the driver
// connection, the goose dialect and their embedded migrations.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/adhamfakhereldeen/Cyber/internal/dbx"
	"github.com/adhamfakhereldeen/Cyber/internal/storage"
	"github.com/pressly/goose/v3"
)

// Dialect describes the backend specifics.
type Dialect struct {
	// Goose is the goose dialect name ("sqlite3", "pgx").
	Goose string
	// Migrations holds the goose SQL files at its root.
	Migrations fs.FS
	// Rebind rewrites "?" placeholders for the driver; nil keeps them.
	Rebind func(query string) string
}

// Dollar rewrites "?" placeholders as $1, $2, ...
func Dollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// gooseMu guards goose's package-level base FS and dialect.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Store is a storage.Gateway over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	if dialect.Rebind == nil {
		dialect.Rebind = func(q string) string { return q }
	}
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Conn() *sql.DB {
	return s.db
}

// RunMigrations applies the embedded migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(s.dialect.Migrations)
	if err := goose.SetDialect(s.dialect.Goose); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load reads all four tables.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	snap := storage.Empty()
	var err error

	if snap.Patients, err = s.patients(s.db).List(ctx); err != nil {
		return nil, err
	}
	if snap.Doctors, err = s.doctors(s.db).List(ctx); err != nil {
		return nil, err
	}
	if snap.Appointments, err = s.appointments(s.db).List(ctx); err != nil {
		return nil, err
	}
	if snap.Users, err = s.users(s.db).List(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save replaces the contents of all four tables in one transaction.
func (s *Store) Save(ctx context.Context, snap *storage.Snapshot) error {
	if snap == nil {
		snap = storage.Empty()
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		patients, doctors, appts, users := s.patients(tx), s.doctors(tx), s.appointments(tx), s.users(tx)

		for _, wipe := range []func(context.Context) error{appts.Clear, patients.Clear, doctors.Clear, users.Clear} {
			if err := wipe(ctx); err != nil {
				return err
			}
		}

		for _, p := range snap.Patients {
			if err := patients.Insert(ctx, p); err != nil {
				return err
			}
		}
		for _, d := range snap.Doctors {
			if err := doctors.Insert(ctx, d); err != nil {
				return err
			}
		}
		for _, a := range snap.Appointments {
			if err := appts.Insert(ctx, a); err != nil {
				return err
			}
		}
		for _, u := range snap.Users {
			if err := users.Insert(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) patients(db dbx.DBTX) *PatientRepository {
	return &PatientRepository{db: db, rebind: s.dialect.Rebind}
}

func (s *Store) doctors(db dbx.DBTX) *DoctorRepository {
	return &DoctorRepository{db: db, rebind: s.dialect.Rebind}
}

func (s *Store) appointments(db dbx.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db, rebind: s.dialect.Rebind}
}

func (s *Store) users(db dbx.DBTX) *UserRepository {
	return &UserRepository{db: db, rebind: s.dialect.Rebind}
}
