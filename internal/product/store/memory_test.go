package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"subhub/internal/product/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

type ProductStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func (s *ProductStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestProductStoreSuite(t *testing.T) {
	suite.Run(t, new(ProductStoreSuite))
}

func (s *ProductStoreSuite) newProduct(name string, status models.Status) models.Product {
	return models.Product{
		ID:              domain.ProductID(uuid.New()),
		Name:            name,
		MonthlyFeeCents: 999,
		Status:          status,
	}
}

func (s *ProductStoreSuite) create(product models.Product) {
	res, err := s.store.Create(s.ctx, product)
	s.Require().NoError(err)
	s.Require().True(res.OK())
}

// TestCreationAndLookups verifies creation and both lookup shapes.
func (s *ProductStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds product by ID", func() {
		product := s.newProduct("Basic", models.StatusDraft)
		s.create(product)

		res, err := s.store.ReadByID(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(res.OK())
		s.Equal(product, res.Value())
	})

	s.Run("finds product by name", func() {
		product := s.newProduct("Named", models.StatusPublished)
		s.create(product)

		res, err := s.store.ReadByName(s.ctx, "Named")
		s.Require().NoError(err)
		s.Require().True(res.OK())
		s.Equal(product.ID, res.Value().ID)
	})

	s.Run("reports failure for unknown ID", func() {
		res, err := s.store.ReadByID(s.ctx, domain.ProductID(uuid.New()))
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductNotFound, res.FailureTag())
	})

	s.Run("reports failure for unknown name", func() {
		res, err := s.store.ReadByName(s.ctx, "Nope")
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductNotFound, res.FailureTag())
	})
}

// TestUniqueness verifies ID and name uniqueness.
func (s *ProductStoreSuite) TestUniqueness() {
	s.Run("rejects duplicate ID", func() {
		product := s.newProduct("First", models.StatusDraft)
		s.create(product)

		dup := s.newProduct("Second", models.StatusDraft)
		dup.ID = product.ID
		res, err := s.store.Create(s.ctx, dup)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagIDExists, res.FailureTag())
	})

	s.Run("rejects duplicate name", func() {
		s.create(s.newProduct("Taken", models.StatusDraft))

		res, err := s.store.Create(s.ctx, s.newProduct("Taken", models.StatusDraft))
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagNameExists, res.FailureTag())
	})
}

// TestUpdates verifies replacement semantics and name index maintenance.
// Lifecycle legality lives in the service; the store replaces blindly.
func (s *ProductStoreSuite) TestUpdates() {
	s.Run("replaces the value and frees the old name", func() {
		product := s.newProduct("Before", models.StatusDraft)
		s.create(product)

		product.Name = "After"
		product.MonthlyFeeCents = 1999
		res, err := s.store.Update(s.ctx, product)
		s.Require().NoError(err)
		s.Require().True(res.OK())
		s.Equal("After", res.Value().Name)

		s.create(s.newProduct("Before", models.StatusDraft))
	})

	s.Run("rejects update to a name taken by another product", func() {
		a := s.newProduct("Alpha", models.StatusDraft)
		b := s.newProduct("Beta", models.StatusDraft)
		s.create(a)
		s.create(b)

		b.Name = "Alpha"
		res, err := s.store.Update(s.ctx, b)
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagNameExists, res.FailureTag())
	})

	s.Run("reports failure for unknown product", func() {
		res, err := s.store.Update(s.ctx, s.newProduct("Ghost", models.StatusDraft))
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductNotFound, res.FailureTag())
	})
}

// TestDeletion verifies removal and the foreign-key emulation fault.
func (s *ProductStoreSuite) TestDeletion() {
	s.Run("deletes and frees the name", func() {
		product := s.newProduct("Gone", models.StatusDraft)
		s.create(product)

		res, err := s.store.Delete(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Require().True(res.OK())

		s.create(s.newProduct("Gone", models.StatusDraft))
	})

	s.Run("reports failure for unknown product", func() {
		res, err := s.store.Delete(s.ctx, domain.ProductID(uuid.New()))
		s.Require().NoError(err)
		s.Require().False(res.OK())
		s.Equal(outcome.TagProductNotFound, res.FailureTag())
	})

	s.Run("faults when the product is still referenced", func() {
		product := s.newProduct("Referenced", models.StatusPublished)
		s.create(product)
		s.store.AttachSubscriptions(stubChecker{referenced: product.ID})

		_, err := s.store.Delete(s.ctx, product.ID)
		s.Require().Error(err)

		res, readErr := s.store.ReadByID(s.ctx, product.ID)
		s.Require().NoError(readErr)
		s.True(res.OK())
	})
}

// TestReadAllOrder verifies insertion order survives deletion.
func (s *ProductStoreSuite) TestReadAllOrder() {
	first := s.newProduct("One", models.StatusDraft)
	second := s.newProduct("Two", models.StatusDraft)
	third := s.newProduct("Three", models.StatusDraft)
	s.create(first)
	s.create(second)
	s.create(third)

	res, err := s.store.Delete(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Require().True(res.OK())

	all, err := s.store.ReadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(first.ID, all[0].ID)
	s.Equal(third.ID, all[1].ID)
}

// stubChecker reports one fixed product as referenced.
type stubChecker struct {
	referenced domain.ProductID
}

func (s stubChecker) AnyForProduct(_ context.Context, id domain.ProductID) (bool, error) {
	return id == s.referenced, nil
}
