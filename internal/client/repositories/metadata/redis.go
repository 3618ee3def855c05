package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps metadata as fields of one Redis hash. Every mutation
// publishes the affected field name on ChangeChannel so other processes
// sharing the hash can react (see session.NewRedisFeed).
type RedisRepository struct {
	client  redis.UniversalClient
	key     string
	channel string
}

// NewRedisRepository stores metadata under the hash key; changes are
// announced on key + ":changes".
func NewRedisRepository(client redis.UniversalClient, key string) *RedisRepository {
	return &RedisRepository{client: client, key: key, channel: ChangeChannel(key)}
}

// ChangeChannel names the pub/sub channel used for a hash key.
func ChangeChannel(key string) string {
	return key + ":changes"
}

// Get returns the value stored under key, or ErrNotFound.
func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.HGet(ctx, r.key, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get %q: %w", key, err)
	case len(value) == 0:
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	return value, nil
}

// Set stores value under key and announces the change.
func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key, key, value)
		pipe.Publish(ctx, r.channel, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key and announces the change.
func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.key, key)
		pipe.Publish(ctx, r.channel, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
