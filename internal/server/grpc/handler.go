package grpc

import (
	"context"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
	"github.com/adhamfakhereldeen/Cyber/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type appointmentRequest struct {
	ID        string `json:"appt_id"`
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Datetime  string `json:"datetime_str"`
	Summary   string `json:"summary"`
}

type userRequest struct {
	Username string      `json:"username"`
	Role     access.Role `json:"role"`
	Password string      `json:"password"`
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"status": "OK"})
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req loginRequest
	if err := decode(in, &req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u, err := s.clinic.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	token, err := auth.GenerateToken(u.Username, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "username", u.Username, "role", string(u.Role))
	return structpb.NewStruct(map[string]any{
		"access_token": token,
		"username":     u.Username,
		"role":         string(u.Role),
	})
}

func (s *GRPCServer) AddPatient(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var p directory.Patient
	if err := decode(in, &p); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	p.Visits = nil

	u := userFrom(ctx)
	if err := s.clinic.AddPatient(ctx, u, p); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.persist(ctx)

	stored, err := s.clinic.FindPatient(u, p.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(stored)
}

func (s *GRPCServer) AddDoctor(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var d directory.Doctor
	if err := decode(in, &d); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u := userFrom(ctx)
	if err := s.clinic.AddDoctor(ctx, u, d); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.persist(ctx)

	stored, err := s.clinic.FindDoctor(u, d.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(stored)
}

func (s *GRPCServer) GetPatient(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.clinic.FindPatient(userFrom(ctx), str(in, "id"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(p)
}

func (s *GRPCServer) GetDoctor(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.clinic.FindDoctor(userFrom(ctx), str(in, "id"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(d)
}

func (s *GRPCServer) ListPatients(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.clinic.Patients(userFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encodeList("patients", list)
}

func (s *GRPCServer) ListDoctors(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.clinic.Doctors(userFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encodeList("doctors", list)
}

// Schedule books an appointment. A blank appt_id gets a generated one.
func (s *GRPCServer) Schedule(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req appointmentRequest
	if err := decode(in, &req); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	a, err := s.clinic.Schedule(ctx, userFrom(ctx), req.ID, req.PatientID, req.DoctorID, req.Datetime)
	return s.appointmentResult(ctx, a, err)
}

func (s *GRPCServer) Cancel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	a, err := s.clinic.Cancel(ctx, userFrom(ctx), str(in, "appt_id"))
	return s.appointmentResult(ctx, a, err)
}

func (s *GRPCServer) Complete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	a, err := s.clinic.Complete(ctx, userFrom(ctx), str(in, "appt_id"), str(in, "summary"))
	return s.appointmentResult(ctx, a, err)
}

func (s *GRPCServer) Reschedule(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	a, err := s.clinic.Reschedule(ctx, userFrom(ctx), str(in, "appt_id"), str(in, "datetime_str"))
	return s.appointmentResult(ctx, a, err)
}

func (s *GRPCServer) appointmentResult(ctx context.Context, a *scheduling.Appointment, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.persist(ctx)
	return encode(a)
}

func (s *GRPCServer) GetAppointment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	a, err := s.clinic.FindAppointment(userFrom(ctx), str(in, "appt_id"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(a)
}

// ListAppointments accepts optional doctor_id and patient_id filters.
func (s *GRPCServer) ListAppointments(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.clinic.Appointments(userFrom(ctx), str(in, "doctor_id"), str(in, "patient_id"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encodeList("appointments", list)
}

func (s *GRPCServer) AddUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req userRequest
	if err := decode(in, &req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u, err := s.clinic.AddUser(ctx, userFrom(ctx), req.Username, req.Role, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.persist(ctx)
	return structpb.NewStruct(map[string]any{"username": u.Username, "role": string(u.Role)})
}

func (s *GRPCServer) ResetPassword(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req userRequest
	if err := decode(in, &req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.clinic.ResetPassword(ctx, userFrom(ctx), req.Username, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.persist(ctx)
	return empty(), nil
}

// persist saves a snapshot after an accepted mutation. Failures are logged
// by the clinic service and do not fail the request.
func (s *GRPCServer) persist(ctx context.Context) {
	_ = s.clinic.Save(ctx)
}
