// Package service orchestrates subscription use cases. Mutations
// pre-validate the referenced user and product, in that order: when both
// are missing only the user failure is reported. This ordering is part
// of the external contract. The pre-checks are best effort; the storage
// backend's foreign keys remain the source of truth, and the store
// classifies a lost race into the same tags the pre-check produces.
package service

import (
	"context"
	"log/slog"

	"subhub/internal/platform/metrics"
	productmodels "subhub/internal/product/models"
	"subhub/internal/subscription/models"
	usermodels "subhub/internal/user/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// Store is the repository contract the service orchestrates.
type Store interface {
	Create(ctx context.Context, sub models.Subscription) (outcome.Result[outcome.Unit], error)
	ReadByID(ctx context.Context, id domain.SubscriptionID) (outcome.Result[models.WithProduct], error)
	ReadAll(ctx context.Context) ([]models.WithProduct, error)
	Update(ctx context.Context, sub models.Subscription) (outcome.Result[models.WithProduct], error)
	Delete(ctx context.Context, id domain.SubscriptionID) (outcome.Result[outcome.Unit], error)
}

// UserReader confirms referenced users exist. The user store satisfies it.
type UserReader interface {
	ReadByID(ctx context.Context, id domain.UserID) (outcome.Result[usermodels.UserWithSubscriptions], error)
}

// ProductReader confirms referenced products exist. The product store
// satisfies it.
type ProductReader interface {
	ReadByID(ctx context.Context, id domain.ProductID) (outcome.Result[productmodels.Product], error)
}

// Service orchestrates subscription lifecycle operations.
type Service struct {
	subs     Store
	users    UserReader
	products ProductReader
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

func New(subs Store, users UserReader, products ProductReader, opts ...Option) *Service {
	s := &Service{subs: subs, users: users, products: products}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a subscription after confirming its references exist.
// A pre-validation failure short-circuits: the store insert never runs.
func (s *Service) Create(ctx context.Context, sub models.Subscription) (outcome.Result[outcome.Unit], error) {
	checked, err := s.validateReferences(ctx, sub)
	res, err := outcome.ThenE(checked, err, func(outcome.Unit) (outcome.Result[outcome.Unit], error) {
		return s.subs.Create(ctx, sub)
	})
	if err == nil && res.OK() {
		s.metrics.IncrementCreated("subscription")
	}
	return res, err
}

func (s *Service) ReadByID(ctx context.Context, id domain.SubscriptionID) (outcome.Result[models.WithProduct], error) {
	return s.subs.ReadByID(ctx, id)
}

func (s *Service) ReadAll(ctx context.Context) ([]models.WithProduct, error) {
	return s.subs.ReadAll(ctx)
}

// Update replaces a subscription after the same reference pre-validation
// as Create.
func (s *Service) Update(ctx context.Context, sub models.Subscription) (outcome.Result[models.WithProduct], error) {
	checked, err := s.validateReferences(ctx, sub)
	return outcome.ThenE(checked, err, func(outcome.Unit) (outcome.Result[models.WithProduct], error) {
		return s.subs.Update(ctx, sub)
	})
}

func (s *Service) Delete(ctx context.Context, id domain.SubscriptionID) (outcome.Result[outcome.Unit], error) {
	return s.subs.Delete(ctx, id)
}

// validateReferences checks the user, then the product. The user check
// runs first by contract, so a subscription with two dangling references
// reports the user failure.
func (s *Service) validateReferences(ctx context.Context, sub models.Subscription) (outcome.Result[outcome.Unit], error) {
	user, err := s.users.ReadByID(ctx, sub.UserID)
	return outcome.ThenE(outcome.Discard(user), err, func(outcome.Unit) (outcome.Result[outcome.Unit], error) {
		product, err := s.products.ReadByID(ctx, sub.ProductID)
		return outcome.Discard(product), err
	})
}
