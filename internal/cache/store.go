// Package cache provides the short-lived key/value storage behind plan drafts, revoked tokens and the
// default profile feed. Redis is used when configured; otherwise an in-process freecache stands in.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

const megabyte = 1024 * 1024

// LocalStore keeps entries in process memory. Entries larger than 1/1024 of the cache size are rejected.
type LocalStore struct {
	cache *freecache.Cache
}

func NewLocalStore(sizeMB int) *LocalStore {
	if sizeMB <= 0 {
		sizeMB = 64
	}
	return &LocalStore{cache: freecache.NewCache(sizeMB * megabyte)}
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	val, err := s.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrMiss
	}
	return val, err
}

func (s *LocalStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.cache.Set([]byte(key), value, expireSeconds(ttl))
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	s.cache.Del([]byte(key))
	return nil
}

// freecache counts whole seconds and treats 0 as "never expires".
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	secs := int(ttl / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
