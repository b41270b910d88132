// CBarrera | 2026
// handler.go

package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cbarrera-dev/storefront/internal/config"
	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/middleware"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

type Handler struct {
	service   *Service
	uploadCfg config.UploadConfig
}

func NewHandler(service *Service, uploadCfg config.UploadConfig) *Handler {
	return &Handler{service: service, uploadCfg: uploadCfg}
}

func (h *Handler) Routes(
	authenticate func(http.Handler) http.Handler,
	requireSeller func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(requireSeller)
		r.Post("/create", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.List(r.Context(), *params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(h.uploadCfg.MaxFormBytes); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		core.BadRequest(w, "invalid price")
		return
	}

	req := CreateProductRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       price,
		Category:    r.FormValue("category"),
	}

	paths, cleanup, err := upload.SpoolAll(r.MultipartForm.File["images"], h.uploadCfg.MaxFileBytes)
	if err != nil {
		core.BadRequest(w, "invalid image file")
		return
	}
	defer cleanup()

	product, err := h.service.Create(r.Context(), sellerID, req, paths)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "product created", product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	var req UpdateProductRequest
	var paths []string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.uploadCfg.MaxFormBytes); err != nil {
			core.BadRequest(w, "invalid multipart form")
			return
		}

		if v := r.FormValue("name"); v != "" {
			req.Name = &v
		}
		if v := r.FormValue("description"); v != "" {
			req.Description = &v
		}
		if v := r.FormValue("category"); v != "" {
			req.Category = &v
		}
		if v := r.FormValue("price"); v != "" {
			price, err := parsePrice(v)
			if err != nil {
				core.BadRequest(w, "invalid price")
				return
			}
			req.Price = &price
		}

		spooled, cleanup, err := upload.SpoolAll(r.MultipartForm.File["images"], h.uploadCfg.MaxFileBytes)
		if err != nil {
			core.BadRequest(w, "invalid image file")
			return
		}
		defer cleanup()
		paths = spooled
	} else {
		if err := core.DecodeJSON(w, r, &req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	product, err := h.service.Update(r.Context(), sellerID, chi.URLParam(r, "id"), req, paths)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product updated", product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), sellerID, chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product deleted", nil)
}

func parsePrice(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func parseListParams(r *http.Request) (*ListParams, error) {
	q := r.URL.Query()
	params := &ListParams{
		Category: q.Get("category"),
	}
	if params.Category != "" && !IsValidCategory(params.Category) {
		return nil, core.ValidationError("invalid category")
	}

	if v := q.Get("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, core.ValidationError("invalid minPrice")
		}
		params.MinPrice = &price
	}
	if v := q.Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, core.ValidationError("invalid maxPrice")
		}
		params.MaxPrice = &price
	}

	if v := q.Get("sort"); v != "" {
		field, direction, _ := strings.Cut(v, ":")
		params.SortField = field
		params.SortAsc = direction != "desc"
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, core.ValidationError("invalid page")
		}
		params.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, core.ValidationError("invalid limit")
		}
		params.Limit = limit
	}

	return params, nil
}
