package device_store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps device state in Redis under device:{id}:{key}.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Get(ctx context.Context, deviceID, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, namespaced(deviceID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, deviceID, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, namespaced(deviceID, key), value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, deviceID, key string) error {
	return s.client.Del(ctx, namespaced(deviceID, key)).Err()
}
