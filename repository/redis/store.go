package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/shxlzz/To-Do-List/repository"
)

type store struct {
	client *redislib.Client
	prefix string
}

// NewStore creates a Redis-backed key-value store. Keys never expire.
func NewStore(client *redislib.Client, prefix string) repository.KVStore {
	if prefix == "" {
		prefix = "todo:"
	}
	return &store{
		client: client,
		prefix: prefix,
	}
}

func (s *store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return result, true, nil
}

// Put issues a single SET, which replaces the value atomically.
func (s *store) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *store) Close() error {
	return s.client.Close()
}

func (s *store) key(key string) string {
	return fmt.Sprintf("%s%s", s.prefix, key)
}
