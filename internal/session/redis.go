package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage adapts a go-redis client to fiber's Storage interface
// so sessions survive restarts and can be shared between instances.
type RedisStorage struct {
	rdb *redis.Client
}

func NewRedisStorage(addr string) *RedisStorage {
	return &RedisStorage{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	b, err := s.rdb.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return b, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(context.Background(), key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	return s.rdb.Del(context.Background(), key).Err()
}

func (s *RedisStorage) Reset() error {
	return s.rdb.FlushDB(context.Background()).Err()
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
