// Package storage opens the keyspace backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace/rediskv"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace/sqlkv"
)

// Backend is an open keyspace together with the resource behind it.
type Backend struct {
	KeySpace keyspace.KeySpace
	close    func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}

	return b.close()
}

// Open connects to the configured driver and, for SQL drivers, applies the
// pending migrations.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		slog.Warn("using in-memory storage, data is lost on exit")
		return &Backend{KeySpace: keyspace.NewMemory()}, nil

	case config.StorageSQLite:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(db, "sqlite3"); err != nil {
			db.Close()
			return nil, err
		}

		return &Backend{KeySpace: sqlkv.New(db, sqlkv.SQLite), close: db.Close}, nil

	case config.StoragePostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(db, "postgres"); err != nil {
			db.Close()
			return nil, err
		}

		return &Backend{KeySpace: sqlkv.New(db, sqlkv.Postgres), close: db.Close}, nil

	case config.StorageRedis:
		kv := rediskv.New(rediskv.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})

		if err := kv.Ping(ctx); err != nil {
			kv.Close()
			return nil, err
		}

		return &Backend{KeySpace: kv, close: kv.Close}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
