package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisDialTimeout  = 3 * time.Second
	redisReadTimeout  = 2 * time.Second
	redisWriteTimeout = 2 * time.Second
	redisPingTimeout  = 2 * time.Second
)

// Redis adapts a go-redis client to the Store interface. Values are stored
// without expiry; carts persist until explicitly cleared.
type Redis struct {
	client *redis.Client
}

// NewRedis parses a Redis URL, validates connectivity, and returns a
// ready-to-use store.
func NewRedis(ctx context.Context, redisURL string, logger *zap.Logger) (*Redis, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("kv: invalid redis URL: %w", err)
	}

	options.DialTimeout = redisDialTimeout
	options.ReadTimeout = redisReadTimeout
	options.WriteTimeout = redisWriteTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kv: redis ping failed: %w", err)
	}

	if logger != nil {
		logger.Info("redis store connected", zap.String("addr", options.Addr))
	}

	return &Redis{client: client}, nil
}

// Get returns the stored value, mapping redis.Nil to ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores the value under key with no expiry.
func (r *Redis) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete removes the key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close releases the underlying client connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
