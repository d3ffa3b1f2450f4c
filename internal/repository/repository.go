// Package repository resolves the configured storage backend once at startup.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/config"
	"github.com/mamadbah2/tanksounding/internal/repository/file"
	"github.com/mamadbah2/tanksounding/internal/repository/kvstore"
	"github.com/mamadbah2/tanksounding/internal/repository/mongodb"
)

// Backend persists the serialized record list as one opaque payload.
// Read returns nil data when nothing has been stored yet.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Set is the resolved pair of authoritative backend and optional cache.
type Set struct {
	Primary Backend
	Cache   Backend
	Name    string

	closers []func(context.Context) error
}

// Open builds the backends selected by cfg.Storage.Backend. For the file and
// mongodb backends a configured Redis address adds a secondary cache.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	set := &Set{Name: cfg.Storage.Backend}

	switch cfg.Storage.Backend {
	case config.BackendFile:
		set.Primary = file.NewRepository(cfg.Storage.FilePath, logger.Named("repo.file"))
	case config.BackendBrowserLocal:
		kv, err := kvstore.NewRepository(ctx, cfg.Redis, cfg.Storage.Key)
		if err != nil {
			return nil, err
		}
		set.Primary = kv
		set.closers = append(set.closers, kv.Close)
	case config.BackendMongoDB:
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Storage.Key)
		if err != nil {
			return nil, err
		}
		set.Primary = mongoRepo
		set.closers = append(set.closers, mongoRepo.Close)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.Backend != config.BackendBrowserLocal && cfg.Redis.Addr != "" {
		cache, err := kvstore.NewRepository(ctx, cfg.Redis, cfg.Storage.Key)
		if err != nil {
			// The cache only speeds things up; run without it.
			logger.Warn("local cache unavailable, continuing without it", zap.Error(err))
		} else {
			set.Cache = cache
			set.closers = append(set.closers, cache.Close)
		}
	}

	logger.Info("storage backend selected",
		zap.String("backend", set.Name),
		zap.Bool("cache", set.Cache != nil))

	return set, nil
}

// Close releases every opened backend.
func (s *Set) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
