package handler

import (
	"subhub/internal/subscription/models"
	"subhub/pkg/domain"
)

// CreateSubscriptionRequest is the POST /subscriptions body. The caller
// supplies the ID; uniqueness is enforced by the store.
type CreateSubscriptionRequest struct {
	ID        string `json:"id"`
	IsActive  bool   `json:"is_active"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

func (r *CreateSubscriptionRequest) ToSubscription() (models.Subscription, error) {
	id, err := domain.ParseSubscriptionID(r.ID)
	if err != nil {
		return models.Subscription{}, err
	}
	return buildSubscription(id, r.IsActive, r.UserID, r.ProductID)
}

// UpdateSubscriptionRequest is the PUT /subscriptions/{id} body; the ID
// comes from the path.
type UpdateSubscriptionRequest struct {
	IsActive  bool   `json:"is_active"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

func (r *UpdateSubscriptionRequest) ToSubscription(id domain.SubscriptionID) (models.Subscription, error) {
	return buildSubscription(id, r.IsActive, r.UserID, r.ProductID)
}

func buildSubscription(id domain.SubscriptionID, isActive bool, rawUser, rawProduct string) (models.Subscription, error) {
	userID, err := domain.ParseUserID(rawUser)
	if err != nil {
		return models.Subscription{}, err
	}
	productID, err := domain.ParseProductID(rawProduct)
	if err != nil {
		return models.Subscription{}, err
	}
	return models.Subscription{ID: id, IsActive: isActive, UserID: userID, ProductID: productID}, nil
}
