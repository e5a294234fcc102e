package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"subhub/internal/product/models"
	"subhub/pkg/domain"
)

func newTestCache(t *testing.T, opts ...Option) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, opts...), mr
}

func newProduct() models.Product {
	return models.Product{
		ID:              domain.ProductID(uuid.New()),
		Name:            "Cached",
		MonthlyFeeCents: 999,
		Status:          models.StatusPublished,
	}
}

func TestSetAndGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	product := newProduct()

	if _, ok := cache.Get(ctx, product.ID); ok {
		t.Fatalf("expected miss before set")
	}

	cache.Set(ctx, product)

	got, ok := cache.Get(ctx, product.ID)
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if got != product {
		t.Fatalf("cached value mismatch: got %+v, want %+v", got, product)
	}
}

func TestInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	product := newProduct()

	cache.Set(ctx, product)
	cache.Invalidate(ctx, product.ID)

	if _, ok := cache.Get(ctx, product.ID); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, WithTTL(time.Minute))
	ctx := context.Background()
	product := newProduct()

	cache.Set(ctx, product)
	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx, product.ID); ok {
		t.Fatalf("expected miss after TTL elapsed")
	}
}

func TestCorruptEntryIsAMissAndEvicted(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	id := domain.ProductID(uuid.New())

	if err := mr.Set("product:"+id.String(), "{not json"); err != nil {
		t.Fatalf("failed to seed corrupt entry: %v", err)
	}

	if _, ok := cache.Get(ctx, id); ok {
		t.Fatalf("expected corrupt entry to read as a miss")
	}
	if mr.Exists("product:" + id.String()) {
		t.Fatalf("expected corrupt entry to be evicted")
	}
}

func TestRedisDownIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	product := newProduct()

	cache.Set(ctx, product)
	mr.Close()

	if _, ok := cache.Get(ctx, product.ID); ok {
		t.Fatalf("expected miss when redis is unreachable")
	}
}
