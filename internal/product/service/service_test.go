package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"subhub/internal/product/models"
	"subhub/internal/product/store"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

type ProductServiceSuite struct {
	suite.Suite
	store   *spyStore
	cache   *fakeCache
	service *Service
	ctx     context.Context
}

func (s *ProductServiceSuite) SetupTest() {
	s.store = &spyStore{Memory: store.NewMemory()}
	s.cache = newFakeCache()
	s.service = New(s.store, WithCache(s.cache))
	s.ctx = context.Background()
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}

func (s *ProductServiceSuite) seed(status models.Status) models.Product {
	product := models.Product{
		ID:              domain.ProductID(uuid.New()),
		Name:            "Seed-" + uuid.New().String(),
		MonthlyFeeCents: 999,
		Status:          status,
	}
	res, err := s.service.Create(s.ctx, product)
	s.Require().NoError(err)
	s.Require().True(res.OK())
	return product
}

// TestUpdateOrdering verifies that a forbidden transition is reported
// before field immutability when an update violates both rules, and that
// neither failure reaches the store.
func (s *ProductServiceSuite) TestUpdateOrdering() {
	s.Run("transition failure wins over immutability", func() {
		product := s.seed(models.StatusPublished)

		changed := product
		changed.Status = models.StatusDraft
		changed.MonthlyFeeCents = 1

		s.store.updates = 0
		res, err := s.service.Update(s.ctx, changed)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagPublishedToDraft, res.FailureTag())
		s.Zero(s.store.updates, "a failed validation must not reach the store")
	})

	s.Run("immutability failure when only fields change", func() {
		product := s.seed(models.StatusPublished)

		changed := product
		changed.MonthlyFeeCents = 1

		s.store.updates = 0
		res, err := s.service.Update(s.ctx, changed)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagImmutablePublished, res.FailureTag())
		s.Zero(s.store.updates)
	})

	s.Run("same-state status write with identical fields is a no-op update", func() {
		product := s.seed(models.StatusDeprecated)

		res, err := s.service.Update(s.ctx, product)
		s.Require().NoError(err)
		s.True(res.OK())
	})

	s.Run("draft products accept any field change", func() {
		product := s.seed(models.StatusDraft)

		changed := product
		changed.MonthlyFeeCents = 12345
		res, err := s.service.Update(s.ctx, changed)
		s.Require().NoError(err)
		s.Require().True(res.OK())
		s.Equal(int64(12345), res.Value().MonthlyFeeCents)
	})

	s.Run("missing product short-circuits both checks", func() {
		ghost := models.Product{ID: domain.ProductID(uuid.New()), Name: "Ghost", Status: models.StatusDraft}

		s.store.updates = 0
		res, err := s.service.Update(s.ctx, ghost)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductNotFound, res.FailureTag())
		s.Zero(s.store.updates)
	})
}

// TestDeleteGuard verifies only draft products can be deleted and that a
// guarded delete never reaches the store.
func (s *ProductServiceSuite) TestDeleteGuard() {
	s.Run("deletes a draft product", func() {
		product := s.seed(models.StatusDraft)

		res, err := s.service.Delete(s.ctx, product.ID)
		s.Require().NoError(err)
		s.True(res.OK())
	})

	s.Run("refuses to delete a published product", func() {
		product := s.seed(models.StatusPublished)

		s.store.deletes = 0
		res, err := s.service.Delete(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductPublished, res.FailureTag())
		s.Zero(s.store.deletes)
	})

	s.Run("refuses to delete a deprecated product", func() {
		product := s.seed(models.StatusDeprecated)

		res, err := s.service.Delete(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductDeprecated, res.FailureTag())
	})
}

// TestCache verifies the read-through behavior: misses fill the cache,
// hits skip the store, and successful writes invalidate.
func (s *ProductServiceSuite) TestCache() {
	s.Run("read fills the cache and a second read hits it", func() {
		product := s.seed(models.StatusDraft)

		s.store.reads = 0
		res, err := s.service.ReadByID(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(res.OK())
		s.Equal(1, s.store.reads)

		res, err = s.service.ReadByID(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(res.OK())
		s.Equal(1, s.store.reads, "second read must be served from cache")
	})

	s.Run("failed reads are not cached", func() {
		ghost := domain.ProductID(uuid.New())

		res, err := s.service.ReadByID(s.ctx, ghost)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Empty(s.cache.entries[ghost])
	})

	s.Run("update invalidates the cached entry", func() {
		product := s.seed(models.StatusDraft)

		res, err := s.service.ReadByID(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(res.OK())

		changed := product
		changed.MonthlyFeeCents = 1
		upd, err := s.service.Update(s.ctx, changed)
		s.Require().NoError(err)
		s.Require().True(upd.OK())

		_, cached := s.cache.Get(s.ctx, product.ID)
		s.False(cached, "update must invalidate the cache")
	})

	s.Run("delete invalidates the cached entry", func() {
		product := s.seed(models.StatusDraft)

		res, err := s.service.ReadByID(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(res.OK())

		del, err := s.service.Delete(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(del.OK())

		_, cached := s.cache.Get(s.ctx, product.ID)
		s.False(cached)
	})
}

// spyStore counts store calls on top of the memory implementation.
type spyStore struct {
	*store.Memory
	reads   int
	updates int
	deletes int
}

func (s *spyStore) ReadByID(ctx context.Context, id domain.ProductID) (outcome.Result[models.Product], error) {
	s.reads++
	return s.Memory.ReadByID(ctx, id)
}

func (s *spyStore) Update(ctx context.Context, product models.Product) (outcome.Result[models.Product], error) {
	s.updates++
	return s.Memory.Update(ctx, product)
}

func (s *spyStore) Delete(ctx context.Context, id domain.ProductID) (outcome.Result[outcome.Unit], error) {
	s.deletes++
	return s.Memory.Delete(ctx, id)
}

// fakeCache is an in-process Cache double.
type fakeCache struct {
	entries map[domain.ProductID]*models.Product
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[domain.ProductID]*models.Product)}
}

func (c *fakeCache) Get(_ context.Context, id domain.ProductID) (models.Product, bool) {
	if p := c.entries[id]; p != nil {
		return *p, true
	}
	return models.Product{}, false
}

func (c *fakeCache) Set(_ context.Context, product models.Product) {
	c.entries[product.ID] = &product
}

func (c *fakeCache) Invalidate(_ context.Context, id domain.ProductID) {
	delete(c.entries, id)
}
