package handler

import (
	"fmt"
	"strings"

	"subhub/internal/user/models"
	"subhub/pkg/domain"
)

// CreateUserRequest is the POST /users body. The caller supplies the ID;
// uniqueness is enforced by the store.
type CreateUserRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (r *CreateUserRequest) ToUser() (models.User, error) {
	id, err := domain.ParseUserID(r.ID)
	if err != nil {
		return models.User{}, err
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return models.User{}, fmt.Errorf("email is required")
	}
	return models.User{ID: id, Email: email}, nil
}

// UpdateUserRequest is the PUT /users/{id} body; the ID comes from the path.
type UpdateUserRequest struct {
	Email string `json:"email"`
}

func (r *UpdateUserRequest) ToUser(id domain.UserID) (models.User, error) {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return models.User{}, fmt.Errorf("email is required")
	}
	return models.User{ID: id, Email: email}, nil
}
