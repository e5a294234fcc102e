package store

import (
	"context"
	"fmt"
	"sync"

	subscriptionmodels "subhub/internal/subscription/models"
	"subhub/internal/user/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// SubscriptionSource supplies the subscription read shapes owned by a
// user. The memory backend wires the subscription store in after
// construction (AttachSubscriptions) because the two stores reference
// each other.
type SubscriptionSource interface {
	ListByUser(ctx context.Context, id domain.UserID) ([]subscriptionmodels.WithProduct, error)
}

// Memory is the in-memory user store. It enforces the same uniqueness
// rules and produces the same failure tags as the Postgres store, so
// services and tests observe one vocabulary regardless of backend.
type Memory struct {
	mu      sync.RWMutex
	users   map[domain.UserID]models.User
	byEmail map[string]domain.UserID
	order   []domain.UserID

	subs SubscriptionSource
}

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[domain.UserID]models.User),
		byEmail: make(map[string]domain.UserID),
	}
}

// AttachSubscriptions wires the subscription source used to materialize
// read shapes and to emulate foreign-key integrity on delete.
func (m *Memory) AttachSubscriptions(src SubscriptionSource) {
	m.subs = src
}

func (m *Memory) Create(_ context.Context, user models.User) (outcome.Result[outcome.Unit], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; ok {
		return outcome.Fail[outcome.Unit](outcome.TagIDExists), nil
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return outcome.Fail[outcome.Unit](outcome.TagEmailExists), nil
	}
	m.users[user.ID] = user
	m.byEmail[user.Email] = user.ID
	m.order = append(m.order, user.ID)
	return outcome.Ok(outcome.Unit{}), nil
}

func (m *Memory) ReadByID(ctx context.Context, id domain.UserID) (outcome.Result[models.UserWithSubscriptions], error) {
	m.mu.RLock()
	user, ok := m.users[id]
	m.mu.RUnlock()
	if !ok {
		return outcome.Fail[models.UserWithSubscriptions](outcome.TagUserNotFound), nil
	}
	return m.materialize(ctx, user)
}

func (m *Memory) ReadByEmail(ctx context.Context, email string) (outcome.Result[models.UserWithSubscriptions], error) {
	m.mu.RLock()
	id, ok := m.byEmail[email]
	user := m.users[id]
	m.mu.RUnlock()
	if !ok {
		return outcome.Fail[models.UserWithSubscriptions](outcome.TagUserNotFound), nil
	}
	return m.materialize(ctx, user)
}

func (m *Memory) ReadAll(ctx context.Context) ([]models.UserWithSubscriptions, error) {
	m.mu.RLock()
	users := make([]models.User, 0, len(m.order))
	for _, id := range m.order {
		users = append(users, m.users[id])
	}
	m.mu.RUnlock()

	out := make([]models.UserWithSubscriptions, 0, len(users))
	for _, user := range users {
		res, err := m.materialize(ctx, user)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Value())
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, user models.User) (outcome.Result[models.UserWithSubscriptions], error) {
	m.mu.Lock()
	current, ok := m.users[user.ID]
	if !ok {
		m.mu.Unlock()
		return outcome.Fail[models.UserWithSubscriptions](outcome.TagUserNotFound), nil
	}
	if other, taken := m.byEmail[user.Email]; taken && other != user.ID {
		m.mu.Unlock()
		return outcome.Fail[models.UserWithSubscriptions](outcome.TagEmailExists), nil
	}
	delete(m.byEmail, current.Email)
	m.users[user.ID] = user
	m.byEmail[user.Email] = user.ID
	m.mu.Unlock()

	return m.materialize(ctx, user)
}

func (m *Memory) Delete(ctx context.Context, id domain.UserID) (outcome.Result[outcome.Unit], error) {
	m.mu.RLock()
	_, ok := m.users[id]
	m.mu.RUnlock()
	if !ok {
		return outcome.Fail[outcome.Unit](outcome.TagUserNotFound), nil
	}

	// Foreign-key emulation: a referenced user cannot be removed. This is
	// a fault, not a domain outcome, matching the Postgres backend where
	// the unclassified constraint violation propagates as an error.
	if m.subs != nil {
		owned, err := m.subs.ListByUser(ctx, id)
		if err != nil {
			return outcome.Result[outcome.Unit]{}, err
		}
		if len(owned) > 0 {
			return outcome.Result[outcome.Unit]{}, fmt.Errorf("user %s is still referenced by %d subscription(s)", id, len(owned))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[id]
	if !ok {
		return outcome.Fail[outcome.Unit](outcome.TagUserNotFound), nil
	}
	delete(m.users, id)
	delete(m.byEmail, current.Email)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return outcome.Ok(outcome.Unit{}), nil
}

// Exists reports raw presence without materializing the read shape. The
// subscription store uses it for pre-validation parity checks.
func (m *Memory) Exists(_ context.Context, id domain.UserID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *Memory) materialize(ctx context.Context, user models.User) (outcome.Result[models.UserWithSubscriptions], error) {
	subs := []subscriptionmodels.WithProduct{}
	if m.subs != nil {
		var err error
		subs, err = m.subs.ListByUser(ctx, user.ID)
		if err != nil {
			return outcome.Result[models.UserWithSubscriptions]{}, err
		}
	}
	return outcome.Ok(models.UserWithSubscriptions{User: user, Subscriptions: subs}), nil
}
