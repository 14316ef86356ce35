package sqlstore

import (
	"context"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/dbx"
)

type UserRepository struct {
	db     dbx.DBTX
	rebind func(string) string
}

func (r *UserRepository) List(ctx context.Context) ([]access.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, role, password_hash, salt, scheme FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	out := []access.User{}
	for rows.Next() {
		var u access.User
		var role string
		if err := rows.Scan(&u.Username, &role, &u.PasswordHash, &u.Salt, &u.Scheme); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		u.Role = access.Role(role)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return out, nil
}

func (r *UserRepository) Insert(ctx context.Context, u access.User) error {
	_, err := r.db.ExecContext(ctx,
		r.rebind(`INSERT INTO users (username, role, password_hash, salt, scheme) VALUES (?, ?, ?, ?, ?)`),
		u.Username, string(u.Role), u.PasswordHash, u.Salt, u.Scheme)
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
	}
	return nil
}

func (r *UserRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}
