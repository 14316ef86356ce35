// Package backend opens the storage.Gateway selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/config"
	"github.com/adhamfakhereldeen/Cyber/internal/storage"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/jsonfile"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/postgres"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/sqlite"
)

// Open returns the gateway for cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (storage.Gateway, error) {
	switch cfg.StoreBackend {
	case config.BackendJSON, "":
		return jsonfile.New(cfg.DataDir), nil
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", common.ErrInvalidArgument, cfg.StoreBackend)
	}
}
