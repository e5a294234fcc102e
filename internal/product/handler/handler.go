// Package handler exposes the product endpoints. Lifecycle violations
// (forbidden status transitions, frozen field edits) respond with the
// tag's canonical message; existence and uniqueness failures name the
// offending identifier.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"subhub/internal/httpapi"
	"subhub/internal/platform/metrics"
	"subhub/internal/product/service"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

type Handler struct {
	products *service.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(h *Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(products *service.Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{products: products, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/by-name/{name}", h.readByName)
		r.Get("/{id}", h.read)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid request body")
		return
	}
	product, err := req.ToProduct()
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.products.Create(r.Context(), product)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		var detail string
		switch tag := res.FailureTag(); tag {
		case outcome.TagNameExists:
			detail = fmt.Sprintf("Product with name %q already exists.", product.Name)
		case outcome.TagIDExists:
			detail = fmt.Sprintf("Product with ID %s already exists.", product.ID)
		}
		h.failure(w, res.FailureTag(), detail)
		return
	}
	httpapi.JSON(w, http.StatusCreated, nil)
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.products.ReadByID(r.Context(), id)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("Product with ID %s does not exist.", id))
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) readByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	res, err := h.products.ReadByName(r.Context(), name)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		h.failure(w, res.FailureTag(), fmt.Sprintf("Product with name %q does not exist.", name))
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ReadAll(r.Context())
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, products)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid request body")
		return
	}
	product, err := req.ToProduct(id)
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.products.Update(r.Context(), product)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		// Transition and immutability tags keep their canonical message;
		// only existence and uniqueness name the identifier.
		var detail string
		switch tag := res.FailureTag(); tag {
		case outcome.TagProductNotFound:
			detail = fmt.Sprintf("Product with ID %s does not exist.", id)
		case outcome.TagNameExists:
			detail = fmt.Sprintf("Product with name %q already exists.", product.Name)
		}
		h.failure(w, res.FailureTag(), detail)
		return
	}
	httpapi.JSON(w, http.StatusOK, res.Value())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	res, err := h.products.Delete(r.Context(), id)
	if err != nil {
		httpapi.Fault(w, r, h.logger, err)
		return
	}
	if !res.OK() {
		var detail string
		switch tag := res.FailureTag(); tag {
		case outcome.TagProductNotFound:
			detail = fmt.Sprintf("Product with ID %s does not exist.", id)
		case outcome.TagProductPublished:
			detail = fmt.Sprintf("Product with ID %s cannot be deleted because its status is published.", id)
		case outcome.TagProductDeprecated:
			detail = fmt.Sprintf("Product with ID %s cannot be deleted because its status is deprecated.", id)
		}
		h.failure(w, res.FailureTag(), detail)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) failure(w http.ResponseWriter, tag outcome.Tag, detail string) {
	h.metrics.IncrementFailure(tag.String())
	httpapi.Failure(w, tag, detail)
}
