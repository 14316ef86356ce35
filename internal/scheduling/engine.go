// Package scheduling owns the appointment collection. It enforces booking
// rules and lifecycle transitions, and keeps every doctor's slot set equal
// to the datetimes of that doctor's scheduled appointments.
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
)

// Engine serialises all scheduling work behind one mutex, so the conflict
// check and the slot mutation are atomic with respect to each other.
type Engine struct {
	mu       sync.Mutex
	dir      *directory.Directory
	recorder audit.Recorder
	policy   Policy
	appts    map[string]*Appointment
}

func NewEngine(dir *directory.Directory, recorder audit.Recorder, policy Policy) *Engine {
	return &Engine{
		dir:      dir,
		recorder: recorder,
		policy:   policy,
		appts:    make(map[string]*Appointment),
	}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Schedule books patientID with doctorID at datetime. A taken doctor slot is
// reported before a busy patient.
func (e *Engine) Schedule(ctx context.Context, id, patientID, doctorID, datetime, actor string) (*Appointment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty appointment id", common.ErrInvalidArgument)
	}
	if !ValidDatetime(datetime) {
		return nil, fmt.Errorf("%w: datetime %q, want %s", common.ErrInvalidArgument, datetime, common.DatetimeLayout)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.appts[id]; ok {
		return nil, fmt.Errorf("appointment %q: %w", id, common.ErrAlreadyExists)
	}
	if !e.dir.HasPatient(patientID) {
		return nil, fmt.Errorf("patient %q: %w", patientID, common.ErrorNotFound)
	}

	free, err := e.dir.IsAvailable(doctorID, datetime)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("doctor %s at %s: %w", doctorID, datetime, common.ErrConflict)
	}
	if e.patientBusy(patientID, datetime, "") {
		return nil, fmt.Errorf("patient %s at %s: %w", patientID, datetime, common.ErrConflict)
	}

	if err := e.dir.AddSlot(doctorID, datetime); err != nil {
		return nil, err
	}
	a := &Appointment{
		ID:        id,
		PatientID: patientID,
		DoctorID:  doctorID,
		Datetime:  datetime,
		Status:    StatusScheduled,
	}
	e.appts[id] = a

	e.recorder.Record(ctx, audit.EventSchedule, actor,
		fmt.Sprintf("Scheduled appt %s for patient %s with doctor %s", id, patientID, doctorID))

	out := *a
	return &out, nil
}

// Cancel moves a scheduled appointment to cancelled and frees its slot.
func (e *Engine) Cancel(ctx context.Context, id, actor string) (*Appointment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.transitionable(id)
	if err != nil {
		return nil, err
	}

	a.Status = StatusCancelled
	e.releaseSlot(a.DoctorID, a.Datetime, a.ID)

	e.recorder.Record(ctx, audit.EventCancel, actor, "Cancelled appt "+id)

	out := *a
	return &out, nil
}

// Complete closes the appointment with summary, frees its slot and appends
// summary to the patient's visit history. A patient that no longer exists
// is skipped unless references are strict.
func (e *Engine) Complete(ctx context.Context, id, summary, actor string) (*Appointment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.transitionable(id)
	if err != nil {
		return nil, err
	}

	a.Status = StatusCompleted
	a.Summary = summary
	// completed appointments stop holding the slot
	e.releaseSlot(a.DoctorID, a.Datetime, a.ID)
	if e.dir.HasPatient(a.PatientID) {
		if err := e.dir.AddVisit(a.PatientID, summary); err != nil {
			return nil, err
		}
	}

	e.recorder.Record(ctx, audit.EventComplete, actor, "Completed appt "+id)

	out := *a
	return &out, nil
}

// Reschedule moves a scheduled appointment to newDatetime, carrying its
// slot marker along. Rescheduling to the current datetime does nothing.
func (e *Engine) Reschedule(ctx context.Context, id, newDatetime, actor string) (*Appointment, error) {
	if !ValidDatetime(newDatetime) {
		return nil, fmt.Errorf("%w: datetime %q, want %s", common.ErrInvalidArgument, newDatetime, common.DatetimeLayout)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.transitionable(id)
	if err != nil {
		return nil, err
	}
	if !e.dir.HasDoctor(a.DoctorID) {
		return nil, fmt.Errorf("doctor %q: %w", a.DoctorID, common.ErrorNotFound)
	}

	if a.Datetime == newDatetime {
		out := *a
		return &out, nil
	}

	free, err := e.dir.IsAvailable(a.DoctorID, newDatetime)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("doctor %s at %s: %w", a.DoctorID, newDatetime, common.ErrConflict)
	}
	if e.patientBusy(a.PatientID, newDatetime, a.ID) {
		return nil, fmt.Errorf("patient %s at %s: %w", a.PatientID, newDatetime, common.ErrConflict)
	}

	old := a.Datetime
	if e.slotShared(a.DoctorID, old, a.ID) {
		err = e.dir.AddSlot(a.DoctorID, newDatetime)
	} else {
		err = e.dir.MoveSlot(a.DoctorID, old, newDatetime)
	}
	if err != nil {
		return nil, err
	}
	a.Datetime = newDatetime

	e.recorder.Record(ctx, audit.EventReschedule, actor, fmt.Sprintf("%s -> %s", old, newDatetime))

	out := *a
	return &out, nil
}

// Delete removes the appointment entirely. It is only available when the
// policy allows it.
func (e *Engine) Delete(ctx context.Context, id, actor string) error {
	if !e.policy.AllowDelete {
		return fmt.Errorf("delete appointment: %w", common.ErrOperationDisabled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.appts[id]
	if !ok {
		return fmt.Errorf("appointment %q: %w", id, common.ErrorNotFound)
	}
	if a.Status == StatusScheduled {
		e.releaseSlot(a.DoctorID, a.Datetime, a.ID)
	}
	delete(e.appts, id)

	e.recorder.Record(ctx, audit.EventDelete, actor, "Deleted appt "+id)
	return nil
}

func (e *Engine) Find(id string) (*Appointment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %q: %w", id, common.ErrorNotFound)
	}
	out := *a
	return &out, nil
}

// List returns every appointment ordered by datetime, then ID.
func (e *Engine) List() []Appointment {
	return e.filter(func(*Appointment) bool { return true })
}

func (e *Engine) ForDoctor(doctorID string) []Appointment {
	return e.filter(func(a *Appointment) bool { return a.DoctorID == doctorID })
}

func (e *Engine) ForPatient(patientID string) []Appointment {
	return e.filter(func(a *Appointment) bool { return a.PatientID == patientID })
}

// Restore replaces the collection and rebuilds every doctor's slot set from
// the scheduled appointments. Later duplicates of an ID win.
func (e *Engine) Restore(appts []Appointment) {
	m := make(map[string]*Appointment, len(appts))
	for _, a := range appts {
		a := a
		if a.Status == "" {
			a.Status = StatusScheduled
		}
		m[a.ID] = &a
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.appts = m
	e.rebuildSlots()
}

func (e *Engine) rebuildSlots() {
	slots := make(map[string][]string)
	for _, a := range e.sorted(func(*Appointment) bool { return true }) {
		if a.Status == StatusScheduled {
			slots[a.DoctorID] = append(slots[a.DoctorID], a.Datetime)
		}
	}
	e.dir.ResetSlots(slots)
}

// slotShared reports whether a scheduled appointment other than exceptID
// holds doctorID's slot at datetime. A restored snapshot may contain such
// pairs. Must be called with e.mu held.
func (e *Engine) slotShared(doctorID, datetime, exceptID string) bool {
	for _, o := range e.appts {
		if o.ID != exceptID && o.Status == StatusScheduled && o.DoctorID == doctorID && o.Datetime == datetime {
			return true
		}
	}
	return false
}

// releaseSlot frees doctorID's marker at datetime unless another scheduled
// appointment still holds it. Must be called with e.mu held.
func (e *Engine) releaseSlot(doctorID, datetime, exceptID string) {
	if e.slotShared(doctorID, datetime, exceptID) {
		return
	}
	e.dir.RemoveSlot(doctorID, datetime)
}

// transitionable returns the live record for id if it may still change
// state. Must be called with e.mu held.
func (e *Engine) transitionable(id string) (*Appointment, error) {
	a, ok := e.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %q: %w", id, common.ErrorNotFound)
	}
	if a.Status.Terminal() {
		return nil, fmt.Errorf("appointment %s is %s: %w", id, a.Status, common.ErrInvalidTransition)
	}
	if e.policy.StrictReferences {
		if !e.dir.HasPatient(a.PatientID) {
			return nil, fmt.Errorf("patient %q: %w", a.PatientID, common.ErrorNotFound)
		}
		if !e.dir.HasDoctor(a.DoctorID) {
			return nil, fmt.Errorf("doctor %q: %w", a.DoctorID, common.ErrorNotFound)
		}
	}
	return a, nil
}

// patientBusy must be called with e.mu held.
func (e *Engine) patientBusy(patientID, datetime, exceptID string) bool {
	if !e.policy.PatientConflictCheck {
		return false
	}
	for _, a := range e.appts {
		if a.ID != exceptID && a.PatientID == patientID && a.Datetime == datetime && a.Status == StatusScheduled {
			return true
		}
	}
	return false
}

func (e *Engine) filter(keep func(*Appointment) bool) []Appointment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sorted(keep)
}

func (e *Engine) sorted(keep func(*Appointment) bool) []Appointment {
	out := make([]Appointment, 0, len(e.appts))
	for _, a := range e.appts {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Datetime != out[j].Datetime {
			return out[i].Datetime < out[j].Datetime
		}
		return out[i].ID < out[j].ID
	})
	return out
}
