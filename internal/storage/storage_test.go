package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace"
	"github.com/MrJamesThe3rd/invoicer/internal/storage"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageMemory

	b, err := storage.Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &keyspace.Memory{}, b.KeySpace)
	assert.NoError(t, b.Close())
}

func TestOpen_SQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "nested", "invoicer.db")

	b, err := storage.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, b.KeySpace.Set(ctx, "user-a-savedInvoices", "[]"))
	require.NoError(t, b.Close())

	b, err = storage.Open(ctx, cfg)
	require.NoError(t, err)

	defer b.Close()

	v, ok, err := b.KeySpace.Get(ctx, "user-a-savedInvoices")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = "mongo"

	_, err := storage.Open(context.Background(), cfg)
	assert.Error(t, err)
}
