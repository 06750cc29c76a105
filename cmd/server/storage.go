package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/internal/config"
	boltInfra "github.com/mo-tomi/nowtask8/internal/infrastructure/bolt"
	pgInfra "github.com/mo-tomi/nowtask8/internal/infrastructure/postgres"
	redisInfra "github.com/mo-tomi/nowtask8/internal/infrastructure/redis"
	"github.com/mo-tomi/nowtask8/internal/services/lifecycle"
	"github.com/mo-tomi/nowtask8/repository"
	boltRepo "github.com/mo-tomi/nowtask8/repository/bolt"
	"github.com/mo-tomi/nowtask8/repository/memory"
	pgRepo "github.com/mo-tomi/nowtask8/repository/postgres"
	redisRepo "github.com/mo-tomi/nowtask8/repository/redis"
)

// openStorage connects the configured snapshot backend and registers its
// shutdown hook.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger, manager *lifecycle.Manager) (repository.SnapshotRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Storage.BoltPath, boltRepo.Bucket)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		manager.Register("bolt", func(context.Context) error { return db.Close() })
		logger.Info("bolt store opened", zap.String("path", cfg.Storage.BoltPath))
		return boltRepo.NewSnapshotRepository(db), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection: %w", err)
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		})
		return pgRepo.NewSnapshotRepository(pool), nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis connection: %w", err)
		}
		manager.Register("redis", func(context.Context) error { return client.Close() })
		logger.Info("connected to redis", zap.String("prefix", cfg.Redis.Prefix))
		return redisRepo.NewSnapshotRepository(client, cfg.Redis.Prefix), nil

	case config.DriverMemory:
		logger.Warn("memory storage selected, state is lost on exit")
		return memory.NewSnapshotRepository(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
