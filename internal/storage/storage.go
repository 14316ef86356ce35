// Package storage defines the snapshot exchanged with persistence backends.
// Backends load and save the whole state at once; there is no per-record
// persistence.
package storage

import (
	"context"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
)

// Snapshot is the full persisted state of the clinic.
type Snapshot struct {
	Patients     []directory.Patient      `json:"patients"`
	Doctors      []directory.Doctor       `json:"doctors"`
	Appointments []scheduling.Appointment `json:"appointments"`
	Users        []access.User            `json:"users"`
}

// Empty returns a snapshot with non-nil, empty collections.
func Empty() *Snapshot {
	return &Snapshot{
		Patients:     []directory.Patient{},
		Doctors:      []directory.Doctor{},
		Appointments: []scheduling.Appointment{},
		Users:        []access.User{},
	}
}

// Normalize replaces nil collections with empty ones.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Patients == nil {
		s.Patients = []directory.Patient{}
	}
	if s.Doctors == nil {
		s.Doctors = []directory.Doctor{}
	}
	if s.Appointments == nil {
		s.Appointments = []scheduling.Appointment{}
	}
	if s.Users == nil {
		s.Users = []access.User{}
	}
	return s
}

// Gateway loads and saves snapshots.
//
// Load may return a partial snapshot together with an error when only some
// collections could be read; collections that failed are empty.
type Gateway interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Close() error
}
