// Package idempotency keeps the responses of idempotent requests in Redis so a
// retried request gets the first answer back.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:idempotency:"

// RedisStore implements ports.IdempotencyStore.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr. The connection is checked lazily on the
// first command; use Ping to fail fast.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Lookup(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("idempotency lookup %s: %w", key, err)
	}
	return payload, true, nil
}

// Remember keeps the first payload stored under key.
func (s *RedisStore) Remember(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := s.client.SetNX(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember %s: %w", key, err)
	}
	return nil
}
