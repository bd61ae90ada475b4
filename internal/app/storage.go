package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/storage"
	"github.com/slok/slimeboard/internal/storage/diskv"
	"github.com/slok/slimeboard/internal/storage/memory"
	"github.com/slok/slimeboard/internal/storage/redis"
	"github.com/slok/slimeboard/internal/storage/sqlite"
)

// NewKV returns the storage backend selected by the configuration and a function
// to release its resources.
func NewKV(ctx context.Context, cfg model.StorageConfig, logger log.Logger) (storage.KV, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Backend {
	case model.StorageBackendMemory:
		kv, err := memory.NewRepository(memory.RepositoryConfig{QuotaBytes: cfg.QuotaBytes, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create memory storage: %w", err)
		}
		return kv, noClose, nil

	case model.StorageBackendDiskv:
		kv, err := diskv.NewRepository(diskv.RepositoryConfig{BasePath: cfg.DiskvPath, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create diskv storage: %w", err)
		}
		return kv, noClose, nil

	case model.StorageBackendSQLite:
		kv, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: cfg.SQLitePath, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create sqlite storage: %w", err)
		}
		return kv, kv.Close, nil

	case model.StorageBackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.Redis.Addr, err)
		}

		kv, err := redis.NewRepository(redis.RepositoryConfig{Client: client, Prefix: cfg.Redis.Prefix, Logger: logger})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("could not create redis storage: %w", err)
		}
		return kv, client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q: %w", cfg.Backend, model.ErrNotValid)
}
