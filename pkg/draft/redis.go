package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "enrollment:draft:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *RedisStore) key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data []byte) error {
	err := s.rdb.Set(ctx, s.key(id), data, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("save draft %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	err := s.rdb.Del(ctx, s.key(id)).Err()
	if err != nil {
		return fmt.Errorf("clear draft %s: %w", id, err)
	}
	return nil
}
