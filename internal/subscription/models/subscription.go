// Package models defines the subscription entity in its two shapes: the
// write shape referencing user and product by ID, and the read shape with
// the product materialized.
package models

import (
	productmodels "subhub/internal/product/models"
	"subhub/pkg/domain"
)

// Subscription is the write shape used for creation and update. It
// references its user and product by ID so callers never need the full
// objects to mutate a subscription. Both references must exist; the
// service pre-validates and the storage backend's foreign keys enforce it.
type Subscription struct {
	ID        domain.SubscriptionID `json:"id"`
	IsActive  bool                  `json:"is_active"`
	UserID    domain.UserID         `json:"user_id"`
	ProductID domain.ProductID      `json:"product_id"`
}

// WithProduct is the read shape: the referenced product is materialized
// so consumers never chase the product_id themselves.
type WithProduct struct {
	ID       domain.SubscriptionID `json:"id"`
	IsActive bool                  `json:"is_active"`
	Product  productmodels.Product `json:"product"`
}
