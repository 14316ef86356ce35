package cli

import (
	"context"
)

func (a *App) Save(ctx context.Context, _ []string) error {
	if err := a.clinic.Save(ctx); err != nil {
		return err
	}
	a.println("Saved")
	return nil
}

// Backup uploads a snapshot to the configured bucket.
func (a *App) Backup(ctx context.Context, _ []string) error {
	key, err := a.clinic.Export(ctx, a.user)
	if err != nil {
		return err
	}
	a.println("Backup stored as", key)
	return nil
}
