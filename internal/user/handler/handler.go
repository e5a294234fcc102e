// Package handler exposes the user endpoints. Each endpoint decodes its
// input, invokes exactly one service method, and hands the terminal
// outcome to httpapi. The detail messages name the offending identifier
// and are part of the public API.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"subhub/internal/httpapi"
	"subhub/internal/platform/metrics"
	"subhub/internal/user/service"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

type Handler struct {
	users   *service.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(h *Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(users *service.Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{users: users, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/by-email/{email}", h.readByEmail)
		r.Get("/{id}", h.read)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid request body")
		return
	}
	user, err := req.ToUser()
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.users.Create(r.Context(), user)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		var detail string
		switch tag := res.FailureTag(); tag {
		case outcome.TagEmailExists:
			detail = fmt.Sprintf("User with email %s already exists.", user.Email)
		case outcome.TagIDExists:
			detail = fmt.Sprintf("User with ID %s already exists.", user.ID)
		}
		h.failure(w, res.FailureTag(), detail)
		return
	}
	httpapi.JSON(w, http.StatusCreated, nil)
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.users.ReadByID(r.Context(), id)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("User with ID %s does not exist.", id))
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) readByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	res, err := h.users.ReadByEmail(r.Context(), email)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("User with email %s does not exist.", email))
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ReadAll(r.Context())
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, users)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid request body")
		return
	}
	user, err := req.ToUser(id)
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.users.Update(r.Context(), user)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		var detail string
		switch tag := res.FailureTag(); tag {
		case outcome.TagUserNotFound:
			detail = fmt.Sprintf("User with ID %s does not exist.", id)
		case outcome.TagEmailExists:
			detail = fmt.Sprintf("User with email %s already exists.", user.Email)
		}
		h.failure(w, res.FailureTag(), detail)
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.users.Delete(r.Context(), id)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("User with ID %s does not exist.", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) failure(w http.ResponseWriter, tag outcome.Tag, detail string) {
	h.metrics.IncrementFailure(tag.String())
	httpapi.Failure(w, tag, detail)
}
