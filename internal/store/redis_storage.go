package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	rdb redis.UniversalClient
}

func (s *RedisStorage) Conn() redis.UniversalClient {
	return s.rdb
}

func (s *RedisStorage) Get(ctx context.Context, key string, val any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, val)
}

func (s *RedisStorage) Set(ctx context.Context, key string, val any, expiresIn time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, expiresIn).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	deleted, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStorage) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisStorage) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, ErrNotFound
	}
	return ttl, nil
}

func NewRedisStorage(rdb redis.UniversalClient) *RedisStorage {
	return &RedisStorage{
		rdb: rdb,
	}
}
