package clinic

import (
	"context"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
)

func (s *Service) AddPatient(ctx context.Context, u *access.User, p directory.Patient) error {
	if err := s.authorize(u, access.ActionAddPatient); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.dir.AddPatient(p); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.EventAddPatient, u.Username, "Added patient "+p.ID)
	return nil
}

func (s *Service) AddDoctor(ctx context.Context, u *access.User, d directory.Doctor) error {
	if err := s.authorize(u, access.ActionAddDoctor); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.dir.AddDoctor(d); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.EventAddDoctor, u.Username, "Added doctor "+d.ID)
	return nil
}

func (s *Service) UpdatePatientPhone(ctx context.Context, u *access.User, id, phone string) error {
	if err := s.authorize(u, access.ActionAddPatient); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.dir.UpdatePatientPhone(id, phone); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.EventUpdatePhone, u.Username, "Updated phone for patient "+id)
	return nil
}

func (s *Service) UpdateDoctorPhone(ctx context.Context, u *access.User, id, phone string) error {
	if err := s.authorize(u, access.ActionAddDoctor); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.dir.UpdateDoctorPhone(id, phone); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.EventUpdatePhone, u.Username, "Updated phone for doctor "+id)
	return nil
}

func (s *Service) FindPatient(u *access.User, id string) (*directory.Patient, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.dir.FindPatient(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) FindDoctor(u *access.User, id string) (*directory.Doctor, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := s.dir.FindDoctor(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Patients(u *access.User) ([]directory.Patient, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Patients(), nil
}

func (s *Service) Doctors(u *access.User) ([]directory.Doctor, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Doctors(), nil
}

// History returns the patient's visit summaries, oldest first.
func (s *Service) History(u *access.User, patientID string) ([]string, error) {
	if err := s.authorize(u, access.ActionViewRecords); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.History(patientID)
}
