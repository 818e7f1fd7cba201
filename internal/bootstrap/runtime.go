// Package bootstrap wires the configured stores and Redis into a Runtime.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"socialhub/internal/cache"
	"socialhub/internal/config"
	"socialhub/internal/database"
	"socialhub/internal/middleware"
	"socialhub/internal/repository"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the opened backends and the repositories built on them.
// Exactly one of DB and Badger is set for the persistent backends; both are
// nil for the in-memory store. Redis is nil when unavailable.
type Runtime struct {
	DB     *gorm.DB
	Badger *badger.DB
	Redis  *redis.Client
	Users  repository.UserRepository
	Posts  repository.PostRepository
}

// InitRuntime opens the store selected by cfg.StoreBackend and connects Redis.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	switch cfg.StoreBackend {
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		rt.DB = db
		rt.Users = repository.NewUserRepository(db)
		rt.Posts = repository.NewPostRepository(db)
	case config.StoreBadger:
		db, err := database.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		rt.Badger = db
		rt.Users = repository.NewBadgerUserRepository(db)
		rt.Posts = repository.NewBadgerPostRepository(db)
	case config.StoreMemory:
		rt.Users = repository.NewMemoryUserRepository()
		rt.Posts = repository.NewMemoryPostRepository()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	rt.Redis = cache.GetClient()

	middleware.Logger.Info("runtime initialized",
		slog.String("store", cfg.StoreBackend),
		slog.Bool("redis", rt.Redis != nil),
	)
	return rt, nil
}

// Close releases every backend the runtime opened.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.DB != nil {
		if sqlDB, err := rt.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if rt.Badger != nil && !rt.Badger.IsClosed() {
		errs = append(errs, rt.Badger.Close())
	}
	if rt.Redis != nil {
		errs = append(errs, rt.Redis.Close())
	}
	return errors.Join(errs...)
}
