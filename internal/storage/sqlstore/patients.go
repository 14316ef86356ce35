package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/dbx"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
)

// PatientRepository maps directory.Patient to the patients table. Visits are
// kept as a JSON array in one column.
type PatientRepository struct {
	db     dbx.DBTX
	rebind func(string) string
}

func (r *PatientRepository) List(ctx context.Context) ([]directory.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, phone, notes, visits FROM patients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	out := []directory.Patient{}
	for rows.Next() {
		var p directory.Patient
		var visits string
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Notes, &visits); err != nil {
			return nil, fmt.Errorf("failed to scan patient row: %w", err)
		}
		if p.Visits, err = decodeList(visits); err != nil {
			return nil, fmt.Errorf("patient %s visits: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patient rows: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) Insert(ctx context.Context, p directory.Patient) error {
	visits, err := encodeList(p.Visits)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.rebind(`INSERT INTO patients (id, name, phone, notes, visits) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.Phone, p.Notes, visits)
	if err != nil {
		return fmt.Errorf("failed to insert patient %s: %w", p.ID, err)
	}
	return nil
}

func (r *PatientRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return fmt.Errorf("failed to clear patients: %w", err)
	}
	return nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
