package sqlstore

import (
	"context"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/dbx"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
)

type AppointmentRepository struct {
	db     dbx.DBTX
	rebind func(string) string
}

func (r *AppointmentRepository) List(ctx context.Context) ([]scheduling.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT appt_id, patient_id, doctor_id, datetime_str, status, summary
		FROM appointments
		ORDER BY datetime_str, appt_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	out := []scheduling.Appointment{}
	for rows.Next() {
		var a scheduling.Appointment
		var status string
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Datetime, &status, &a.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		a.Status = scheduling.Status(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointment rows: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) Insert(ctx context.Context, a scheduling.Appointment) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO appointments (appt_id, patient_id, doctor_id, datetime_str, status, summary)
		VALUES (?, ?, ?, ?, ?, ?)`),
		a.ID, a.PatientID, a.DoctorID, a.Datetime, string(a.Status), a.Summary)
	if err != nil {
		return fmt.Errorf("failed to insert appointment %s: %w", a.ID, err)
	}
	return nil
}

func (r *AppointmentRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM appointments`); err != nil {
		return fmt.Errorf("failed to clear appointments: %w", err)
	}
	return nil
}
