// CBarrera | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cbarrera-dev/storefront/internal/core"
)

type contextKey string

const roleSeller = "seller"

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	UserKey   contextKey = "user"
	ClaimsKey contextKey = "claims"
)

// AccessTokenClaims is the verified content of an access token.
type AccessTokenClaims struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

// UserResolver loads the current account behind a verified token. Tokens
// for deleted accounts must not authenticate.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (any, string, error)
}

// ExtractToken pulls the access token from the auth cookie, falling back to
// a bearer Authorization header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	return ""
}

// Authenticator verifies the request's access token and attaches the
// resolved account to the context. Requests without a valid token get 401.
func Authenticator(verifier TokenVerifier, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Unauthorized(w, "authentication required")
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			user, role, err := resolver.ResolveUser(r.Context(), claims.UserID)
			if err != nil {
				core.Unauthorized(w, "authentication required")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, role)
			ctx = context.WithValue(ctx, UserKey, user)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSeller gates seller-only routes. Runs after Authenticator.
func RequireSeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRole(r.Context())
		if !ok {
			core.Unauthorized(w, "authentication required")
			return
		}
		if role != roleSeller {
			core.Forbidden(w, "seller access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func GetUser(ctx context.Context) (any, bool) {
	user := ctx.Value(UserKey)
	return user, user != nil
}

func GetClaims(ctx context.Context) (*AccessTokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims)
	return claims, ok
}

func handleAuthError(w http.ResponseWriter, err error) {
	if appErr, ok := core.AsAppError(err); ok {
		core.JSONError(w, appErr)
		return
	}
	if errors.Is(err, core.ErrTokenExpired) {
		core.JSONError(w, core.TokenExpiredError())
		return
	}
	core.JSONError(w, core.TokenInvalidError())
}
