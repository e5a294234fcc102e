// Package service orchestrates product use cases, including the status
// state machine checks that gate updates and deletes. Failure tags from
// the store and the state machine cross the service unchanged.
package service

import (
	"context"
	"log/slog"

	"subhub/internal/platform/metrics"
	"subhub/internal/product/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// Store is the repository contract the service orchestrates.
type Store interface {
	Create(ctx context.Context, product models.Product) (outcome.Result[outcome.Unit], error)
	ReadByID(ctx context.Context, id domain.ProductID) (outcome.Result[models.Product], error)
	ReadByName(ctx context.Context, name string) (outcome.Result[models.Product], error)
	ReadAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product models.Product) (outcome.Result[models.Product], error)
	Delete(ctx context.Context, id domain.ProductID) (outcome.Result[outcome.Unit], error)
}

// Cache is an optional read-through cache for by-id lookups. Cache
// trouble never fails a request; implementations report misses instead.
type Cache interface {
	Get(ctx context.Context, id domain.ProductID) (models.Product, bool)
	Set(ctx context.Context, product models.Product)
	Invalidate(ctx context.Context, id domain.ProductID)
}

// Service orchestrates product lifecycle operations.
type Service struct {
	products Store
	cache    Cache
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func New(products Store, opts ...Option) *Service {
	s := &Service{products: products}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, product models.Product) (outcome.Result[outcome.Unit], error) {
	res, err := s.products.Create(ctx, product)
	if err == nil && res.OK() {
		s.metrics.IncrementCreated("product")
	}
	return res, err
}

func (s *Service) ReadByID(ctx context.Context, id domain.ProductID) (outcome.Result[models.Product], error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			return outcome.Ok(product), nil
		}
	}
	res, err := s.products.ReadByID(ctx, id)
	if err == nil && res.OK() && s.cache != nil {
		s.cache.Set(ctx, res.Value())
	}
	return res, err
}

func (s *Service) ReadByName(ctx context.Context, name string) (outcome.Result[models.Product], error) {
	return s.products.ReadByName(ctx, name)
}

func (s *Service) ReadAll(ctx context.Context) ([]models.Product, error) {
	return s.products.ReadAll(ctx)
}

// Update replaces a product after validating the status transition and,
// only then, field immutability: a forbidden transition is reported even
// when the update also touches frozen fields.
func (s *Service) Update(ctx context.Context, product models.Product) (outcome.Result[models.Product], error) {
	current, err := s.products.ReadByID(ctx, product.ID)
	return outcome.ThenE(current, err, func(before models.Product) (outcome.Result[models.Product], error) {
		if tag, ok := models.ValidateTransition(before.Status, product.Status); !ok {
			return outcome.Fail[models.Product](tag), nil
		}
		if tag, ok := models.ValidateFieldChange(before, product); !ok {
			return outcome.Fail[models.Product](tag), nil
		}
		res, err := s.products.Update(ctx, product)
		if err == nil && res.OK() {
			s.invalidate(ctx, product.ID)
		}
		return res, err
	})
}

// Delete removes a draft product. Published and deprecated products are
// part of the public record and report their status instead.
func (s *Service) Delete(ctx context.Context, id domain.ProductID) (outcome.Result[outcome.Unit], error) {
	current, err := s.products.ReadByID(ctx, id)
	return outcome.ThenE(current, err, func(product models.Product) (outcome.Result[outcome.Unit], error) {
		if tag, ok := product.Status.DeletionGuard(); !ok {
			return outcome.Fail[outcome.Unit](tag), nil
		}
		res, err := s.products.Delete(ctx, id)
		if err == nil && res.OK() {
			s.invalidate(ctx, id)
		}
		return res, err
	})
}

func (s *Service) invalidate(ctx context.Context, id domain.ProductID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}
