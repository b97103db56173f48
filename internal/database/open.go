package database

import (
	"context"
	"fmt"
	"log"

	"github.com/codyseavey/chocobo-tracker/internal/config"
)

// Open returns the configured KVStore and a function that releases it
func Open(ctx context.Context, cfg config.StoreConfig, sqlLogLevel string) (KVStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := Initialize(cfg.SQLitePath, sqlLogLevel); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Printf("Using sqlite key-value store at %s", cfg.SQLitePath)
		return NewGormKV(GetDB()), Close, nil

	case config.BackendPostgres:
		kv, err := NewPostgresKV(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using postgres key-value store at %s:%s/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
		return kv, func() error { kv.Close(); return nil }, nil

	case config.BackendMemory:
		log.Println("Using in-memory key-value store; data will not survive a restart")
		return NewMemoryKV(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
