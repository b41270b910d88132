// CBarrera | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"
	"os"
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

// RegisterRoutes attaches the profile endpoints to the shared users router.
func (h *Handler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", h.Me)
		r.Patch("/update-profile", h.UpdateProfile)
		r.Patch("/become-seller", h.BecomeSeller)
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	// The authenticator already resolved the account; skip the second read
	// when it is on the context.
	if cached, ok := middleware.GetUser(r.Context()); ok {
		if u, ok := cached.(*User); ok {
			core.OK(w, toResponse(u))
			return
		}
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	var req UpdateProfileRequest
	var avatarPath string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.uploadCfg.MaxFormBytes); err != nil {
			core.BadRequest(w, "invalid multipart form")
			return
		}

		if v := r.FormValue("name"); v != "" {
			req.Name = &v
		}
		if v := r.FormValue("phoneNumber"); v != "" {
			req.PhoneNumber = &v
		}
		if v := r.FormValue("addresses"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Addresses); err != nil {
				core.BadRequest(w, "invalid addresses payload")
				return
			}
		}

		if fhs := r.MultipartForm.File["avatar"]; len(fhs) > 0 {
			path, err := upload.SpoolFile(fhs[0], h.uploadCfg.MaxFileBytes)
			if err != nil {
				core.BadRequest(w, "invalid avatar file")
				return
			}
			defer os.Remove(path)
			avatarPath = path
		}
	} else {
		if err := core.DecodeJSON(w, r, &req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req, avatarPath)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "profile updated", profile)
}

func (h *Handler) BecomeSeller(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	profile, err := h.service.BecomeSeller(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "account is now a seller", profile)
}
