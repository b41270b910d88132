// CBarrera | 2026
// handler.go

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes are all authenticated; the caller applies the middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/add", h.AddItem)
	r.Get("/", h.Get)
	r.Delete("/remove", h.RemoveItem)
	r.Patch("/update", h.UpdateItem)
	return r
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	var req AddItemRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	cart, err := h.service.AddItem(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, cart)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	cart, err := h.service.Get(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, cart)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	var req RemoveItemRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, cart)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	var req UpdateItemRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, cart)
}
