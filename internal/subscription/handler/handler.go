// Package handler exposes the subscription endpoints. Reference failures
// from pre-validation name the dangling user or product; the user check
// runs first, so when both references dangle the user failure is the one
// reported.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"subhub/internal/httpapi"
	"subhub/internal/platform/metrics"
	"subhub/internal/subscription/models"
	"subhub/internal/subscription/service"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

type Handler struct {
	subs    *service.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(h *Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(subs *service.Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{subs: subs, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.read)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid request body")
		return
	}
	sub, err := req.ToSubscription()
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.subs.Create(r.Context(), sub)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), mutationDetail(res.FailureTag(), sub))
		return
	}
	httpapi.JSON(w, http.StatusCreated, nil)
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseSubscriptionID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.subs.ReadByID(r.Context(), id)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("Subscription with ID %s does not exist.", id))
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.ReadAll(r.Context())
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, subs)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseSubscriptionID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}
	var req UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid request body")
		return
	}
	sub, err := req.ToSubscription(id)
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.subs.Update(r.Context(), sub)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), mutationDetail(res.FailureTag(), sub))
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseSubscriptionID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.subs.Delete(r.Context(), id)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("Subscription with ID %s does not exist.", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutationDetail names the identifier behind a create or update failure.
// Create and update share the same failure vocabulary.
func mutationDetail(tag outcome.Tag, sub models.Subscription) string {
	switch tag {
	case outcome.TagUserNotFound:
		return fmt.Sprintf("User with ID %s does not exist.", sub.UserID)
	case outcome.TagProductNotFound:
		return fmt.Sprintf("Product with ID %s does not exist.", sub.ProductID)
	case outcome.TagIDExists:
		return fmt.Sprintf("Subscription with ID %s already exists.", sub.ID)
	case outcome.TagSubscriptionNotFound:
		return fmt.Sprintf("Subscription with ID %s does not exist.", sub.ID)
	}
	return ""
}

func (h *Handler) failure(w http.ResponseWriter, tag outcome.Tag, detail string) {
	h.metrics.IncrementFailure(tag.String())
	httpapi.Failure(w, tag, detail)
}
