package sqlstore

import (
	"context"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/dbx"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
)

// DoctorRepository maps directory.Doctor to the doctors table; the slot set
// is a JSON array column.
type DoctorRepository struct {
	db     dbx.DBTX
	rebind func(string) string
}

func (r *DoctorRepository) List(ctx context.Context) ([]directory.Doctor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, phone, specialty, office_hours, schedule FROM doctors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	out := []directory.Doctor{}
	for rows.Next() {
		var d directory.Doctor
		var schedule string
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Specialty, &d.OfficeHours, &schedule); err != nil {
			return nil, fmt.Errorf("failed to scan doctor row: %w", err)
		}
		if d.Schedule, err = decodeList(schedule); err != nil {
			return nil, fmt.Errorf("doctor %s schedule: %w", d.ID, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate doctor rows: %w", err)
	}
	return out, nil
}

func (r *DoctorRepository) Insert(ctx context.Context, d directory.Doctor) error {
	schedule, err := encodeList(d.Schedule)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		r.rebind(`INSERT INTO doctors (id, name, phone, specialty, office_hours, schedule) VALUES (?, ?, ?, ?, ?, ?)`),
		d.ID, d.Name, d.Phone, d.Specialty, d.OfficeHours, schedule)
	if err != nil {
		return fmt.Errorf("failed to insert doctor %s: %w", d.ID, err)
	}
	return nil
}

func (r *DoctorRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM doctors`); err != nil {
		return fmt.Errorf("failed to clear doctors: %w", err)
	}
	return nil
}
