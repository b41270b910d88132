// CBarrera | 2026
// handler.go

package auth

import (
	"log/slog"
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
	jwtCfg    config.JWTConfig
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

func NewHandler(
	service *Service,
	jwtCfg config.JWTConfig,
	uploadCfg config.UploadConfig,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		service:   service,
		jwtCfg:    jwtCfg,
		uploadCfg: uploadCfg,
		logger:    logger,
	}
}

// RegisterRoutes attaches the session endpoints to the shared users router.
func (h *Handler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/logout", h.Logout)
		r.Patch("/change-password", h.ChangePassword)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	var avatarPath string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(h.uploadCfg.MaxFormBytes); err != nil {
			core.BadRequest(w, "invalid multipart form")
			return
		}

		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")

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

	user, err := h.service.Register(r.Context(), req, avatarPath)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "account created", user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, refresh, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setAuthCookies(w, resp.AccessToken, refresh.Token)

	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		core.JSONError(w, err)
		return
	}

	h.clearAuthCookies(w)

	core.OKMessage(w, "logged out", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		core.Unauthorized(w, "authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "password updated", nil)
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		Domain:   h.jwtCfg.CookieDomain,
		MaxAge:   int(h.jwtCfg.AccessTokenExpire.Seconds()),
		HttpOnly: true,
		Secure:   h.jwtCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		Domain:   h.jwtCfg.CookieDomain,
		MaxAge:   int(h.jwtCfg.RefreshTokenExpire.Seconds()),
		HttpOnly: true,
		Secure:   h.jwtCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.jwtCfg.CookieDomain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.jwtCfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
