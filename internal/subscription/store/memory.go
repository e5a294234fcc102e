package store

import (
	"context"
	"fmt"
	"sync"

	productmodels "subhub/internal/product/models"
	"subhub/internal/subscription/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// UserChecker reports raw user presence for foreign-key emulation.
type UserChecker interface {
	Exists(ctx context.Context, id domain.UserID) (bool, error)
}

// ProductGetter supplies the raw product for materializing read shapes.
type ProductGetter interface {
	Get(ctx context.Context, id domain.ProductID) (productmodels.Product, bool, error)
}

// Memory is the in-memory subscription store. It emulates the foreign
// keys of the Postgres schema against the user and product stores it is
// constructed with: an insert or update with a dangling reference fails
// with the same tag the Postgres constraint classification produces.
type Memory struct {
	mu    sync.RWMutex
	subs  map[domain.SubscriptionID]models.Subscription
	order []domain.SubscriptionID

	users    UserChecker
	products ProductGetter
}

func NewMemory(users UserChecker, products ProductGetter) *Memory {
	return &Memory{
		subs:     make(map[domain.SubscriptionID]models.Subscription),
		users:    users,
		products: products,
	}
}

func (m *Memory) Create(ctx context.Context, sub models.Subscription) (outcome.Result[outcome.Unit], error) {
	if tag, ok, err := m.checkReferences(ctx, sub); err != nil {
		return outcome.Result[outcome.Unit]{}, err
	} else if !ok {
		return outcome.Fail[outcome.Unit](tag), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[sub.ID]; ok {
		return outcome.Fail[outcome.Unit](outcome.TagIDExists), nil
	}
	m.subs[sub.ID] = sub
	m.order = append(m.order, sub.ID)
	return outcome.Ok(outcome.Unit{}), nil
}

func (m *Memory) ReadByID(ctx context.Context, id domain.SubscriptionID) (outcome.Result[models.WithProduct], error) {
	m.mu.RLock()
	sub, ok := m.subs[id]
	m.mu.RUnlock()
	if !ok {
		return outcome.Fail[models.WithProduct](outcome.TagSubscriptionNotFound), nil
	}
	return m.materialize(ctx, sub)
}

func (m *Memory) ReadAll(ctx context.Context) ([]models.WithProduct, error) {
	m.mu.RLock()
	subs := make([]models.Subscription, 0, len(m.order))
	for _, id := range m.order {
		subs = append(subs, m.subs[id])
	}
	m.mu.RUnlock()

	out := make([]models.WithProduct, 0, len(subs))
	for _, sub := range subs {
		res, err := m.materialize(ctx, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Value())
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, sub models.Subscription) (outcome.Result[models.WithProduct], error) {
	if tag, ok, err := m.checkReferences(ctx, sub); err != nil {
		return outcome.Result[models.WithProduct]{}, err
	} else if !ok {
		return outcome.Fail[models.WithProduct](tag), nil
	}

	m.mu.Lock()
	if _, ok := m.subs[sub.ID]; !ok {
		m.mu.Unlock()
		return outcome.Fail[models.WithProduct](outcome.TagSubscriptionNotFound), nil
	}
	m.subs[sub.ID] = sub
	m.mu.Unlock()

	return m.materialize(ctx, sub)
}

func (m *Memory) Delete(_ context.Context, id domain.SubscriptionID) (outcome.Result[outcome.Unit], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return outcome.Fail[outcome.Unit](outcome.TagSubscriptionNotFound), nil
	}
	delete(m.subs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return outcome.Ok(outcome.Unit{}), nil
}

// ListByUser returns the read shapes of the subscriptions referencing a
// user, in insertion order. The user store materializes with it.
func (m *Memory) ListByUser(ctx context.Context, id domain.UserID) ([]models.WithProduct, error) {
	m.mu.RLock()
	subs := make([]models.Subscription, 0)
	for _, sid := range m.order {
		if sub := m.subs[sid]; sub.UserID == id {
			subs = append(subs, sub)
		}
	}
	m.mu.RUnlock()

	out := make([]models.WithProduct, 0, len(subs))
	for _, sub := range subs {
		res, err := m.materialize(ctx, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Value())
	}
	return out, nil
}

// AnyForProduct reports whether any subscription references the product.
func (m *Memory) AnyForProduct(_ context.Context, id domain.ProductID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

// checkReferences mirrors the Postgres foreign-key classification: a
// dangling user reference yields the user tag, then a dangling product
// reference yields the product tag.
func (m *Memory) checkReferences(ctx context.Context, sub models.Subscription) (outcome.Tag, bool, error) {
	userOK, err := m.users.Exists(ctx, sub.UserID)
	if err != nil {
		return 0, false, err
	}
	if !userOK {
		return outcome.TagUserNotFound, false, nil
	}
	_, productOK, err := m.products.Get(ctx, sub.ProductID)
	if err != nil {
		return 0, false, err
	}
	if !productOK {
		return outcome.TagProductNotFound, false, nil
	}
	return 0, true, nil
}

func (m *Memory) materialize(ctx context.Context, sub models.Subscription) (outcome.Result[models.WithProduct], error) {
	product, ok, err := m.products.Get(ctx, sub.ProductID)
	if err != nil {
		return outcome.Result[models.WithProduct]{}, err
	}
	if !ok {
		// References are validated on every write, so a dangling product
		// here means the backing stores were mutated out of band.
		return outcome.Result[models.WithProduct]{}, fmt.Errorf("subscription %s references missing product %s", sub.ID, sub.ProductID)
	}
	return outcome.Ok(models.WithProduct{ID: sub.ID, IsActive: sub.IsActive, Product: product}), nil
}
