package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInMemoryCatalogCacheStoreGetSetInvalidate(t *testing.T) {
	store := NewInMemoryCatalogCacheStore()
	ctx := context.Background()

	if err := store.Set(ctx, catalogCacheNamespace, 0, "k1", []byte(`{"x":1}`), time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	got, ok, err := store.Get(ctx, catalogCacheNamespace, 0, "k1")
	if err != nil {
		t.Fatalf("get cache: %v", err)
	}
	if !ok || string(got) != `{"x":1}` {
		t.Fatalf("unexpected cache payload ok=%v %s", ok, string(got))
	}

	if err := store.InvalidateNamespace(ctx, catalogCacheNamespace); err != nil {
		t.Fatalf("invalidate namespace: %v", err)
	}
	gen, err := store.Generation(ctx, catalogCacheNamespace)
	if err != nil || gen != 1 {
		t.Fatalf("expected generation 1 after invalidation, got %d err=%v", gen, err)
	}
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, gen, "k1"); ok {
		t.Fatal("expected cache miss after invalidation")
	}
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, 0, "k1"); ok {
		t.Fatal("old generation must not be readable")
	}
}

func TestInMemoryCatalogCacheStoreDropsWritesForOldGeneration(t *testing.T) {
	store := NewInMemoryCatalogCacheStore()
	ctx := context.Background()

	before, _ := store.Generation(ctx, catalogCacheNamespace)
	if err := store.InvalidateNamespace(ctx, catalogCacheNamespace); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := store.Set(ctx, catalogCacheNamespace, before, "k", []byte(`"stale"`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	after, _ := store.Generation(ctx, catalogCacheNamespace)
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, after, "k"); ok {
		t.Fatal("write filled under an old generation must be dropped")
	}
}

func TestInMemoryCatalogCacheStoreExpiry(t *testing.T) {
	store := NewInMemoryCatalogCacheStore()
	now := time.Now().UTC()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Set(ctx, catalogCacheNamespace, 0, "k", []byte(`{}`), time.Second); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	now = now.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, 0, "k"); ok {
		t.Fatal("expected cache entry to expire")
	}
}

func TestNoopCatalogCacheStoreAlwaysMisses(t *testing.T) {
	store := NewNoopCatalogCacheStore()
	ctx := context.Background()
	if err := store.Set(ctx, catalogCacheNamespace, 0, "k", []byte(`{}`), time.Minute); err != nil {
		t.Fatalf("set noop cache: %v", err)
	}
	if _, ok, err := store.Get(ctx, catalogCacheNamespace, 0, "k"); err != nil || ok {
		t.Fatalf("expected noop miss, ok=%v err=%v", ok, err)
	}
}

func TestRedisCatalogCacheStoreInvalidatesNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisCatalogCacheStore(client, "test_cache")
	ctx := context.Background()
	const listKey = "list:limit=10:offset=0"

	gen, err := store.Generation(ctx, catalogCacheNamespace)
	if err != nil || gen != 0 {
		t.Fatalf("expected initial generation 0, got %d err=%v", gen, err)
	}
	if err := store.Set(ctx, catalogCacheNamespace, gen, listKey, []byte(`[1]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "other", 0, "k", []byte(`[2]`), time.Minute); err != nil {
		t.Fatalf("set other: %v", err)
	}
	got, ok, err := store.Get(ctx, catalogCacheNamespace, gen, listKey)
	if err != nil || !ok || string(got) != `[1]` {
		t.Fatalf("unexpected get ok=%v err=%v payload=%s", ok, err, got)
	}

	if err := store.InvalidateNamespace(ctx, catalogCacheNamespace); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	next, err := store.Generation(ctx, catalogCacheNamespace)
	if err != nil || next != gen+1 {
		t.Fatalf("expected generation bump, got %d err=%v", next, err)
	}
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, next, listKey); ok {
		t.Fatal("expected miss after invalidation")
	}

	// A fill that started before the invalidation writes under the old
	// generation and stays invisible to new readers.
	if err := store.Set(ctx, catalogCacheNamespace, gen, listKey, []byte(`[0]`), time.Minute); err != nil {
		t.Fatalf("late set: %v", err)
	}
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, next, listKey); ok {
		t.Fatal("late write for old generation must not be served")
	}

	if _, ok, _ := store.Get(ctx, "other", 0, "k"); !ok {
		t.Fatal("expected other namespace untouched")
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "other", 0, "k"); ok {
		t.Fatal("expected ttl expiry")
	}
}

func TestCachedReadSkipsStoreWhenInvalidatedDuringFill(t *testing.T) {
	store := NewInMemoryCatalogCacheStore()
	cache := newCatalogReadCache(store, time.Minute, discardLogger())
	ctx := context.Background()

	v, err := cachedRead(ctx, cache, "product_one", "term:tee", func(context.Context) (string, error) {
		cache.invalidate(ctx)
		return "before-write", nil
	})
	if err != nil || v != "before-write" {
		t.Fatalf("unexpected first read %q err=%v", v, err)
	}

	v, err = cachedRead(ctx, cache, "product_one", "term:tee", func(context.Context) (string, error) {
		return "after-write", nil
	})
	if err != nil || v != "after-write" {
		t.Fatalf("expected fresh fill after invalidation, got %q err=%v", v, err)
	}
}

func TestCachedReadCoalescesConcurrentMisses(t *testing.T) {
	cache := newCatalogReadCache(NewInMemoryCatalogCacheStore(), time.Minute, discardLogger())
	ctx := context.Background()
	var fills atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cachedRead(ctx, cache, "product_one", "term:tee", func(context.Context) (string, error) {
				fills.Add(1)
				<-release
				return "tee", nil
			})
			if err != nil {
				t.Errorf("cached read: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := fills.Load(); n < 1 || n > int32(len(results)) {
		t.Fatalf("unexpected fill count %d", n)
	}
	for _, r := range results {
		if r != "tee" {
			t.Fatalf("unexpected result %q", r)
		}
	}

	v, err := cachedRead(ctx, cache, "product_one", "term:tee", func(context.Context) (string, error) {
		return "", errors.New("should be served from cache")
	})
	if err != nil || v != "tee" {
		t.Fatalf("expected cache hit, got %q err=%v", v, err)
	}
}

func TestCachedReadDoesNotStoreErrors(t *testing.T) {
	store := NewInMemoryCatalogCacheStore()
	cache := newCatalogReadCache(store, time.Minute, discardLogger())
	ctx := context.Background()

	_, err := cachedRead(ctx, cache, "product_one", "term:x", func(context.Context) (string, error) {
		return "", notFoundError("x")
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok, _ := store.Get(ctx, catalogCacheNamespace, 0, "term:x"); ok {
		t.Fatal("errors must not be cached")
	}
}
