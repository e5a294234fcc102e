package handler

import (
	"fmt"
	"strings"

	"subhub/internal/product/models"
	"subhub/pkg/domain"
)

// CreateProductRequest is the POST /products body. The caller supplies
// the ID; uniqueness is enforced by the store.
type CreateProductRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MonthlyFeeCents int64  `json:"monthly_fee_cents"`
	Status          string `json:"status"`
}

func (r *CreateProductRequest) ToProduct() (models.Product, error) {
	id, err := domain.ParseProductID(r.ID)
	if err != nil {
		return models.Product{}, err
	}
	return buildProduct(id, r.Name, r.MonthlyFeeCents, r.Status)
}

// UpdateProductRequest is the PUT /products/{id} body; the ID comes from
// the path.
type UpdateProductRequest struct {
	Name            string `json:"name"`
	MonthlyFeeCents int64  `json:"monthly_fee_cents"`
	Status          string `json:"status"`
}

func (r *UpdateProductRequest) ToProduct(id domain.ProductID) (models.Product, error) {
	return buildProduct(id, r.Name, r.MonthlyFeeCents, r.Status)
}

func buildProduct(id domain.ProductID, name string, feeCents int64, status string) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, fmt.Errorf("name is required")
	}
	if feeCents < 0 {
		return models.Product{}, fmt.Errorf("monthly_fee_cents must not be negative")
	}
	parsed := models.Status(status)
	if !parsed.IsValid() {
		return models.Product{}, fmt.Errorf("invalid status %q", status)
	}
	return models.Product{ID: id, Name: name, MonthlyFeeCents: feeCents, Status: parsed}, nil
}
