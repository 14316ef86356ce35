package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/config"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/jsonfile"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_JSON(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendJSON, DataDir: t.TempDir()}

	g, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &jsonfile.Gateway{}, g)
	assert.Equal(t, cfg.DataDir, g.(*jsonfile.Gateway).Dir())
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "c.db")}

	g, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer g.Close()
	require.IsType(t, &sqlstore.Store{}, g)
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreBackend: "mongo"})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}
