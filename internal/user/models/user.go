package models

import (
	subscriptionmodels "subhub/internal/subscription/models"
	"subhub/pkg/domain"
)

// User is an immutable account value.
//
// Invariants:
//   - ID and Email are each unique across the user set (store-enforced)
//   - Email is non-empty
type User struct {
	ID    domain.UserID `json:"id"`
	Email string        `json:"email"`
}

// UserWithSubscriptions is the read shape: every read materializes the
// user's subscriptions with their products, in subscription insertion
// order. Subscriptions is never nil.
type UserWithSubscriptions struct {
	User
	Subscriptions []subscriptionmodels.WithProduct `json:"subscriptions"`
}
