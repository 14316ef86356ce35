// Package jsonfile stores the clinic snapshot as four JSON array files in a
// data directory: patients.json, doctors.json, appointments.json and
// users.json.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
	"github.com/adhamfakhereldeen/Cyber/internal/filex"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
	"github.com/adhamfakhereldeen/Cyber/internal/storage"
)

const (
	PatientsFile     = "patients.json"
	DoctorsFile      = "doctors.json"
	AppointmentsFile = "appointments.json"
	UsersFile        = "users.json"
)

// Gateway is a storage.Gateway over a directory of JSON files. Files are
// written one by one; a failure part way through leaves the others intact.
type Gateway struct {
	dir string
}

func New(dir string) *Gateway {
	return &Gateway{dir: dir}
}

func (g *Gateway) Dir() string {
	return g.dir
}

// Load reads every file. A missing file is an empty collection. A file that
// cannot be read or parsed also yields an empty collection, and its error is
// returned alongside the partial snapshot.
func (g *Gateway) Load(_ context.Context) (*storage.Snapshot, error) {
	snap := storage.Empty()
	var errs []error

	var err error
	if snap.Patients, err = readJSON[directory.Patient](g.path(PatientsFile)); err != nil {
		errs = append(errs, err)
	}
	if snap.Doctors, err = readJSON[directory.Doctor](g.path(DoctorsFile)); err != nil {
		errs = append(errs, err)
	}
	if snap.Appointments, err = readJSON[scheduling.Appointment](g.path(AppointmentsFile)); err != nil {
		errs = append(errs, err)
	}
	if snap.Users, err = readJSON[access.User](g.path(UsersFile)); err != nil {
		errs = append(errs, err)
	}

	return snap.Normalize(), errors.Join(errs...)
}

// Save writes all four files. Every file is attempted; errors are joined.
func (g *Gateway) Save(_ context.Context, snap *storage.Snapshot) error {
	if snap == nil {
		snap = storage.Empty()
	}
	snap.Normalize()

	return errors.Join(
		writeJSON(g.path(PatientsFile), snap.Patients),
		writeJSON(g.path(DoctorsFile), snap.Doctors),
		writeJSON(g.path(AppointmentsFile), snap.Appointments),
		writeJSON(g.path(UsersFile), snap.Users),
	)
}

func (g *Gateway) Close() error {
	return nil
}

func (g *Gateway) path(name string) string {
	return filepath.Join(g.dir, name)
}

func readJSON[T any](path string) ([]T, error) {
	out := []T{}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return []T{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(b, &out); err != nil {
		return []T{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func writeJSON[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := filex.WriteFileAtomic(path, b, 0o640); err != nil {
		return err
	}
	return nil
}
