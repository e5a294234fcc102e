package store

import (
	"context"
	"fmt"
	"sync"

	"subhub/internal/product/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// SubscriptionChecker reports whether any subscription references a
// product. Used to emulate foreign-key integrity on delete.
type SubscriptionChecker interface {
	AnyForProduct(ctx context.Context, id domain.ProductID) (bool, error)
}

// Memory is the in-memory product store.
type Memory struct {
	mu       sync.RWMutex
	products map[domain.ProductID]models.Product
	byName   map[string]domain.ProductID
	order    []domain.ProductID

	subs SubscriptionChecker
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[domain.ProductID]models.Product),
		byName:   make(map[string]domain.ProductID),
	}
}

// AttachSubscriptions wires the checker used to emulate foreign-key
// integrity on delete.
func (m *Memory) AttachSubscriptions(subs SubscriptionChecker) {
	m.subs = subs
}

func (m *Memory) Create(_ context.Context, product models.Product) (outcome.Result[outcome.Unit], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[product.ID]; ok {
		return outcome.Fail[outcome.Unit](outcome.TagIDExists), nil
	}
	if _, ok := m.byName[product.Name]; ok {
		return outcome.Fail[outcome.Unit](outcome.TagNameExists), nil
	}
	m.products[product.ID] = product
	m.byName[product.Name] = product.ID
	m.order = append(m.order, product.ID)
	return outcome.Ok(outcome.Unit{}), nil
}

func (m *Memory) ReadByID(_ context.Context, id domain.ProductID) (outcome.Result[models.Product], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[id]
	if !ok {
		return outcome.Fail[models.Product](outcome.TagProductNotFound), nil
	}
	return outcome.Ok(product), nil
}

func (m *Memory) ReadByName(_ context.Context, name string) (outcome.Result[models.Product], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[name]
	if !ok {
		return outcome.Fail[models.Product](outcome.TagProductNotFound), nil
	}
	return outcome.Ok(m.products[id]), nil
}

func (m *Memory) ReadAll(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, product models.Product) (outcome.Result[models.Product], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.products[product.ID]
	if !ok {
		return outcome.Fail[models.Product](outcome.TagProductNotFound), nil
	}
	if other, taken := m.byName[product.Name]; taken && other != product.ID {
		return outcome.Fail[models.Product](outcome.TagNameExists), nil
	}
	delete(m.byName, current.Name)
	m.products[product.ID] = product
	m.byName[product.Name] = product.ID
	return outcome.Ok(product), nil
}

func (m *Memory) Delete(ctx context.Context, id domain.ProductID) (outcome.Result[outcome.Unit], error) {
	m.mu.RLock()
	_, ok := m.products[id]
	m.mu.RUnlock()
	if !ok {
		return outcome.Fail[outcome.Unit](outcome.TagProductNotFound), nil
	}

	// Foreign-key emulation, same contract as the user store.
	if m.subs != nil {
		referenced, err := m.subs.AnyForProduct(ctx, id)
		if err != nil {
			return outcome.Result[outcome.Unit]{}, err
		}
		if referenced {
			return outcome.Result[outcome.Unit]{}, fmt.Errorf("product %s is still referenced by subscriptions", id)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.products[id]
	if !ok {
		return outcome.Fail[outcome.Unit](outcome.TagProductNotFound), nil
	}
	delete(m.products, id)
	delete(m.byName, current.Name)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return outcome.Ok(outcome.Unit{}), nil
}

// Get reports raw presence of a product without a Result wrapper. The
// subscription store uses it for materialization and existence checks.
func (m *Memory) Get(_ context.Context, id domain.ProductID) (models.Product, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[id]
	return product, ok, nil
}
