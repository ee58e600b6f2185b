package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/catalog-service/internal/observability"
)

const catalogCacheNamespace = "catalog.products"

// CatalogCacheStore holds cached read projections grouped by namespace.
// Every InvalidateNamespace bumps the namespace generation; entries are
// only readable and writable under the generation they were filled for.
type CatalogCacheStore interface {
	Generation(ctx context.Context, namespace string) (uint64, error)
	Get(ctx context.Context, namespace string, generation uint64, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace string, generation uint64, key string, value []byte, ttl time.Duration) error
	InvalidateNamespace(ctx context.Context, namespace string) error
}

type NoopCatalogCacheStore struct{}

func NewNoopCatalogCacheStore() *NoopCatalogCacheStore {
	return &NoopCatalogCacheStore{}
}

func (s *NoopCatalogCacheStore) Generation(context.Context, string) (uint64, error) {
	return 0, nil
}

func (s *NoopCatalogCacheStore) Get(context.Context, string, uint64, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *NoopCatalogCacheStore) Set(context.Context, string, uint64, string, []byte, time.Duration) error {
	return nil
}

func (s *NoopCatalogCacheStore) InvalidateNamespace(context.Context, string) error {
	return nil
}

type memoryCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryNamespace struct {
	generation uint64
	entries    map[string]memoryCacheEntry
}

type InMemoryCatalogCacheStore struct {
	mu    sync.RWMutex
	store map[string]*memoryNamespace
	now   func() time.Time
}

func NewInMemoryCatalogCacheStore() *InMemoryCatalogCacheStore {
	return &InMemoryCatalogCacheStore{
		store: make(map[string]*memoryNamespace),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemoryCatalogCacheStore) Generation(_ context.Context, namespace string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.store[namespace]; ok {
		return ns.generation, nil
	}
	return 0, nil
}

func (s *InMemoryCatalogCacheStore) Get(_ context.Context, namespace string, generation uint64, key string) ([]byte, bool, error) {
	now := s.now()
	s.mu.RLock()
	ns, ok := s.store[namespace]
	var entry memoryCacheEntry
	if ok && ns.generation == generation {
		entry, ok = ns.entries[key]
	} else {
		ok = false
	}
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if now.After(entry.expiresAt) {
		s.mu.Lock()
		if ns, ok := s.store[namespace]; ok && ns.generation == generation {
			delete(ns.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

// Set drops the write when the namespace moved past generation while the
// value was being produced.
func (s *InMemoryCatalogCacheStore) Set(_ context.Context, namespace string, generation uint64, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaceLocked(namespace)
	if ns.generation != generation {
		return nil
	}
	ns.entries[key] = memoryCacheEntry{
		payload:   append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *InMemoryCatalogCacheStore) InvalidateNamespace(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaceLocked(namespace)
	ns.generation++
	ns.entries = make(map[string]memoryCacheEntry)
	return nil
}

func (s *InMemoryCatalogCacheStore) namespaceLocked(namespace string) *memoryNamespace {
	ns, ok := s.store[namespace]
	if !ok {
		ns = &memoryNamespace{entries: make(map[string]memoryCacheEntry)}
		s.store[namespace] = ns
	}
	return ns
}

// catalogReadCache is a cache-aside layer over a CatalogCacheStore.
// Concurrent misses for one key share a single fill.
type catalogReadCache struct {
	store  CatalogCacheStore
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func newCatalogReadCache(store CatalogCacheStore, ttl time.Duration, logger *slog.Logger) *catalogReadCache {
	if store == nil {
		store = NewNoopCatalogCacheStore()
	}
	return &catalogReadCache{store: store, ttl: ttl, logger: logger}
}

// cachedRead serves key from the cache or fills it. The fill is stored
// under the generation observed before it started, so a write that commits
// and invalidates mid-fill leaves no stale entry behind.
func cachedRead[T any](ctx context.Context, c *catalogReadCache, endpoint, key string, fill func(context.Context) (T, error)) (T, error) {
	if c == nil || c.ttl <= 0 {
		return fill(ctx)
	}
	generation, err := c.store.Generation(ctx, catalogCacheNamespace)
	if err != nil {
		observability.RecordCatalogCacheEvent(ctx, endpoint, "get_error")
		c.logger.WarnContext(ctx, "catalog cache generation read failed", "endpoint", endpoint, "error", err)
		return fill(ctx)
	}
	if payload, ok, err := c.store.Get(ctx, catalogCacheNamespace, generation, key); err != nil {
		observability.RecordCatalogCacheEvent(ctx, endpoint, "get_error")
		c.logger.WarnContext(ctx, "catalog cache read failed", "endpoint", endpoint, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(payload, &cached); err == nil {
			observability.RecordCatalogCacheEvent(ctx, endpoint, "hit")
			return cached, nil
		}
		observability.RecordCatalogCacheEvent(ctx, endpoint, "decode_error")
	}

	observability.RecordCatalogCacheEvent(ctx, endpoint, "miss")
	flightKey := endpoint + "|" + strconv.FormatUint(generation, 10) + "|" + key
	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		fresh, err := fill(ctx)
		if err != nil {
			return fresh, err
		}
		if payload, err := json.Marshal(fresh); err == nil {
			if err := c.store.Set(ctx, catalogCacheNamespace, generation, key, payload, c.ttl); err != nil {
				observability.RecordCatalogCacheEvent(ctx, endpoint, "set_error")
				c.logger.WarnContext(ctx, "catalog cache write failed", "endpoint", endpoint, "error", err)
			}
		}
		return fresh, nil
	})
	if shared {
		observability.RecordCatalogCacheEvent(ctx, endpoint, "coalesced")
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *catalogReadCache) invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.store.InvalidateNamespace(ctx, catalogCacheNamespace); err != nil {
		observability.RecordCatalogCacheEvent(ctx, "write", "invalidate_error")
		c.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
		return
	}
	observability.RecordCatalogCacheEvent(ctx, "write", "invalidated")
}
