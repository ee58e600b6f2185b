package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCatalogCacheStore versions each namespace with an INCR counter that
// is part of every data key. Invalidation bumps the counter, so a late write
// for an older generation lands on a key no reader asks for. One index set
// per namespace lets invalidation also drop live keys without SCAN.
type RedisCatalogCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCatalogCacheStore(client redis.UniversalClient, prefix string) *RedisCatalogCacheStore {
	if prefix == "" {
		prefix = "catalog_cache"
	}
	return &RedisCatalogCacheStore{client: client, prefix: prefix}
}

func (s *RedisCatalogCacheStore) Generation(ctx context.Context, namespace string) (uint64, error) {
	if s.client == nil {
		return 0, nil
	}
	gen, err := s.client.Get(ctx, s.versionKey(namespace)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen, nil
}

func (s *RedisCatalogCacheStore) Get(ctx context.Context, namespace string, generation uint64, key string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, nil
	}
	value, err := s.client.Get(ctx, s.dataKey(namespace, generation, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisCatalogCacheStore) Set(ctx context.Context, namespace string, generation uint64, key string, value []byte, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	dataKey := s.dataKey(namespace, generation, key)
	index := s.indexKey(namespace)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, dataKey, value, ttl)
	pipe.SAdd(ctx, index, dataKey)
	pipe.Expire(ctx, index, ttl+time.Minute)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisCatalogCacheStore) InvalidateNamespace(ctx context.Context, namespace string) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Incr(ctx, s.versionKey(namespace)).Err(); err != nil {
		return err
	}
	index := s.indexKey(namespace)
	keys, err := s.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, index)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisCatalogCacheStore) dataKey(namespace string, generation uint64, key string) string {
	return fmt.Sprintf("%s:data:%s:v%d:%s", s.prefix, normalizeToken(namespace), generation, hashToken(key))
}

func (s *RedisCatalogCacheStore) indexKey(namespace string) string {
	return fmt.Sprintf("%s:index:%s", s.prefix, normalizeToken(namespace))
}

func (s *RedisCatalogCacheStore) versionKey(namespace string) string {
	return fmt.Sprintf("%s:version:%s", s.prefix, normalizeToken(namespace))
}

func normalizeToken(v string) string {
	if v == "" {
		return "default"
	}
	return v
}

func hashToken(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}
