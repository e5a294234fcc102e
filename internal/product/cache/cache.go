// Package cache provides a Redis read-through cache for product by-id
// lookups. The cache is an accelerator, never an authority: any Redis
// trouble is logged and reported as a miss so the store stays the source
// of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"subhub/internal/product/models"
	"subhub/pkg/domain"
)

const defaultTTL = 5 * time.Minute

// Cache caches product read shapes keyed by ID.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(c *Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func New(client *redis.Client, opts ...Option) *Cache {
	c := &Cache{client: client, ttl: defaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(id domain.ProductID) string {
	return "product:" + id.String()
}

func (c *Cache) Get(ctx context.Context, id domain.ProductID) (models.Product, bool) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn(ctx, "product cache get failed", err)
		}
		return models.Product{}, false
	}
	var product models.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		c.warn(ctx, "product cache entry corrupt", err)
		c.Invalidate(ctx, id)
		return models.Product{}, false
	}
	return product, true
}

func (c *Cache) Set(ctx context.Context, product models.Product) {
	raw, err := json.Marshal(product)
	if err != nil {
		c.warn(ctx, "product cache encode failed", err)
		return
	}
	if err := c.client.Set(ctx, key(product.ID), raw, c.ttl).Err(); err != nil {
		c.warn(ctx, "product cache set failed", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, id domain.ProductID) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.warn(ctx, "product cache invalidate failed", err)
	}
}

func (c *Cache) warn(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "error", err)
	}
}
