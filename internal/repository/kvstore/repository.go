// Package kvstore keeps the record list under a single key of a local Redis
// instance. It backs the "browser-local" storage option and the secondary cache.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mamadbah2/tanksounding/internal/config"
)

// Repository stores a byte payload under one key.
type Repository struct {
	client *redis.Client
	key    string
}

// NewRepository connects to Redis and verifies the connection.
func NewRepository(ctx context.Context, cfg config.RedisConfig, key string) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRepositoryWithClient(client, key), nil
}

// NewRepositoryWithClient wraps an existing client.
func NewRepositoryWithClient(client *redis.Client, key string) *Repository {
	return &Repository{client: client, key: key}
}

// Read returns the stored payload, or nil when the key is absent.
func (r *Repository) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return data, nil
}

// Write stores the payload without expiry.
func (r *Repository) Write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Close releases the client connection pool.
func (r *Repository) Close(_ context.Context) error {
	return r.client.Close()
}
