package store

import (
	"context"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps session keys under a per-device prefix.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

var _ ports.SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "tracker:session:"
	}
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (r *RedisSessionStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session get %q: %w", key, err)
	}
	return v, nil
}

func (r *RedisSessionStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("session delete %q: %w", key, err)
	}
	return nil
}
