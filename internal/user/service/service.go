// Package service orchestrates user use cases. The service is a
// pass-through for failure tags: whatever the store reports crosses the
// service unchanged, and unclassified storage faults propagate as errors.
package service

import (
	"context"
	"log/slog"

	"subhub/internal/platform/metrics"
	"subhub/internal/user/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// Store is the repository contract the service orchestrates. Both the
// memory and Postgres implementations satisfy it.
type Store interface {
	Create(ctx context.Context, user models.User) (outcome.Result[outcome.Unit], error)
	ReadByID(ctx context.Context, id domain.UserID) (outcome.Result[models.UserWithSubscriptions], error)
	ReadByEmail(ctx context.Context, email string) (outcome.Result[models.UserWithSubscriptions], error)
	ReadAll(ctx context.Context) ([]models.UserWithSubscriptions, error)
	Update(ctx context.Context, user models.User) (outcome.Result[models.UserWithSubscriptions], error)
	Delete(ctx context.Context, id domain.UserID) (outcome.Result[outcome.Unit], error)
}

// Service orchestrates user lifecycle operations.
type Service struct {
	users   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(users Store, opts ...Option) *Service {
	s := &Service{users: users}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, user models.User) (outcome.Result[outcome.Unit], error) {
	res, err := s.users.Create(ctx, user)
	if err == nil && res.OK() {
		s.metrics.IncrementCreated("user")
	}
	return res, err
}

func (s *Service) ReadByID(ctx context.Context, id domain.UserID) (outcome.Result[models.UserWithSubscriptions], error) {
	return s.users.ReadByID(ctx, id)
}

func (s *Service) ReadByEmail(ctx context.Context, email string) (outcome.Result[models.UserWithSubscriptions], error) {
	return s.users.ReadByEmail(ctx, email)
}

func (s *Service) ReadAll(ctx context.Context) ([]models.UserWithSubscriptions, error) {
	return s.users.ReadAll(ctx)
}

func (s *Service) Update(ctx context.Context, user models.User) (outcome.Result[models.UserWithSubscriptions], error) {
	return s.users.Update(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id domain.UserID) (outcome.Result[outcome.Unit], error) {
	return s.users.Delete(ctx, id)
}
