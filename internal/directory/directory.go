// Package directory owns patient and doctor records, including each
// doctor's booked slot set.
//
// Records handed out are copies; mutation goes through Directory methods.
// The slot mutators (AddSlot, RemoveSlot, MoveSlot, ResetSlots) are meant
// for the scheduling engine only, which keeps them consistent with the
// appointment collection.
package directory

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
)

type Directory struct {
	mu       sync.RWMutex
	patients map[string]*Patient
	doctors  map[string]*Doctor
}

func New() *Directory {
	return &Directory{
		patients: make(map[string]*Patient),
		doctors:  make(map[string]*Doctor),
	}
}

// AddPatient stores p, replacing any patient with the same ID. A replaced
// patient keeps its visit history.
func (d *Directory) AddPatient(p Patient) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty patient id", common.ErrInvalidArgument)
	}
	p = p.clone()

	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.patients[p.ID]; ok {
		p.Visits = old.Visits
	}
	d.patients[p.ID] = &p
	return nil
}

// AddDoctor stores doc, replacing any doctor with the same ID. The booked
// slot set is owned by the scheduling engine: a replaced doctor keeps its
// current set and a new doctor starts empty, whatever doc.Schedule holds.
func (d *Directory) AddDoctor(doc Doctor) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: empty doctor id", common.ErrInvalidArgument)
	}
	doc.Schedule = []string{}

	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.doctors[doc.ID]; ok {
		doc.Schedule = old.Schedule
	}
	d.doctors[doc.ID] = &doc
	return nil
}

func (d *Directory) FindPatient(id string) (Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.patients[id]
	if !ok {
		return Patient{}, fmt.Errorf("patient %q: %w", id, common.ErrorNotFound)
	}
	return p.clone(), nil
}

func (d *Directory) FindDoctor(id string) (Doctor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.doctors[id]
	if !ok {
		return Doctor{}, fmt.Errorf("doctor %q: %w", id, common.ErrorNotFound)
	}
	return doc.clone(), nil
}

func (d *Directory) HasPatient(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.patients[id]
	return ok
}

func (d *Directory) HasDoctor(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.doctors[id]
	return ok
}

// Patients returns all patients sorted by ID.
func (d *Directory) Patients() []Patient {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Patient, 0, len(d.patients))
	for _, p := range d.patients {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Doctors returns all doctors sorted by ID.
func (d *Directory) Doctors() []Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Doctor, 0, len(d.doctors))
	for _, doc := range d.doctors {
		out = append(out, doc.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Directory) UpdatePatientPhone(id, phone string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.patients[id]
	if !ok {
		return fmt.Errorf("patient %q: %w", id, common.ErrorNotFound)
	}
	p.Phone = phone
	return nil
}

func (d *Directory) UpdateDoctorPhone(id, phone string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.doctors[id]
	if !ok {
		return fmt.Errorf("doctor %q: %w", id, common.ErrorNotFound)
	}
	doc.Phone = phone
	return nil
}

// History returns a copy of the patient's visit summaries, oldest first.
func (d *Directory) History(patientID string) ([]string, error) {
	p, err := d.FindPatient(patientID)
	if err != nil {
		return nil, err
	}
	return p.Visits, nil
}

// AddVisit appends note to the patient's visit history.
func (d *Directory) AddVisit(patientID, note string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.patients[patientID]
	if !ok {
		return fmt.Errorf("patient %q: %w", patientID, common.ErrorNotFound)
	}
	p.Visits = append(p.Visits, note)
	return nil
}

// IsAvailable reports whether the doctor has no marker at datetime.
func (d *Directory) IsAvailable(doctorID, datetime string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.doctors[doctorID]
	if !ok {
		return false, fmt.Errorf("doctor %q: %w", doctorID, common.ErrorNotFound)
	}
	return doc.IsAvailable(datetime), nil
}

// AddSlot inserts a marker; adding an existing marker is a no-op.
func (d *Directory) AddSlot(doctorID, datetime string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.doctors[doctorID]
	if !ok {
		return fmt.Errorf("doctor %q: %w", doctorID, common.ErrorNotFound)
	}
	if !slices.Contains(doc.Schedule, datetime) {
		doc.Schedule = append(doc.Schedule, datetime)
	}
	return nil
}

// RemoveSlot drops a marker. A missing doctor or marker is not an error.
func (d *Directory) RemoveSlot(doctorID, datetime string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if doc, ok := d.doctors[doctorID]; ok {
		doc.Schedule = slices.DeleteFunc(doc.Schedule, func(s string) bool { return s == datetime })
	}
}

// MoveSlot replaces marker from with marker to under one lock.
func (d *Directory) MoveSlot(doctorID, from, to string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.doctors[doctorID]
	if !ok {
		return fmt.Errorf("doctor %q: %w", doctorID, common.ErrorNotFound)
	}
	doc.Schedule = slices.DeleteFunc(doc.Schedule, func(s string) bool { return s == from })
	if !slices.Contains(doc.Schedule, to) {
		doc.Schedule = append(doc.Schedule, to)
	}
	return nil
}

// ResetSlots clears every doctor's slot set and installs the given markers.
// Entries for unknown doctors are ignored.
func (d *Directory) ResetSlots(slots map[string][]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, doc := range d.doctors {
		doc.Schedule = []string{}
		for _, s := range slots[id] {
			if !slices.Contains(doc.Schedule, s) {
				doc.Schedule = append(doc.Schedule, s)
			}
		}
	}
}

// Restore replaces both collections, e.g. after loading a snapshot.
// Doctor schedules are taken as given; the engine rebuilds them afterwards.
func (d *Directory) Restore(patients []Patient, doctors []Doctor) {
	pm := make(map[string]*Patient, len(patients))
	for _, p := range patients {
		p = p.clone()
		pm[p.ID] = &p
	}
	dm := make(map[string]*Doctor, len(doctors))
	for _, doc := range doctors {
		doc = doc.clone()
		dm[doc.ID] = &doc
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.patients = pm
	d.doctors = dm
}
