package clinic

import (
	"context"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
)

func (s *Service) Schedule(ctx context.Context, u *access.User, id, patientID, doctorID, datetime string) (*scheduling.Appointment, error) {
	if err := s.authorize(u, access.ActionSchedule); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Schedule(ctx, id, patientID, doctorID, datetime, u.Username)
}

func (s *Service) Cancel(ctx context.Context, u *access.User, id string) (*scheduling.Appointment, error) {
	if err := s.authorize(u, access.ActionCancel); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Cancel(ctx, id, u.Username)
}

func (s *Service) Complete(ctx context.Context, u *access.User, id, summary string) (*scheduling.Appointment, error) {
	if err := s.authorize(u, access.ActionComplete); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Complete(ctx, id, summary, u.Username)
}

// Reschedule is gated by the schedule permission.
func (s *Service) Reschedule(ctx context.Context, u *access.User, id, datetime string) (*scheduling.Appointment, error) {
	if err := s.authorize(u, access.ActionSchedule); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Reschedule(ctx, id, datetime, u.Username)
}

// Delete is gated by the cancel permission and by the AllowDelete policy.
func (s *Service) Delete(ctx context.Context, u *access.User, id string) error {
	if err := s.authorize(u, access.ActionCancel); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Delete(ctx, id, u.Username)
}

func (s *Service) FindAppointment(u *access.User, id string) (*scheduling.Appointment, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Find(id)
}

// Appointments lists appointments, optionally narrowed to one doctor and/or
// one patient. Empty filters match everything.
func (s *Service) Appointments(u *access.User, doctorID, patientID string) ([]scheduling.Appointment, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []scheduling.Appointment
	switch {
	case doctorID != "":
		list = s.engine.ForDoctor(doctorID)
	case patientID != "":
		list = s.engine.ForPatient(patientID)
	default:
		list = s.engine.List()
	}

	if doctorID != "" && patientID != "" {
		out := list[:0]
		for _, a := range list {
			if a.PatientID == patientID {
				out = append(out, a)
			}
		}
		list = out
	}
	return list, nil
}
