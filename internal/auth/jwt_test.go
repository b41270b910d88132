// CBarrera | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cbarrera-dev/storefront/internal/config"
	"github.com/cbarrera-dev/storefront/internal/core"
)

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "ec-private.pem"),
		PublicKeyPath:      filepath.Join(dir, "ec-public.pem"),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "storefront-test",
		Audience:           "storefront-web",
	}

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	return cfg
}

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()

	manager, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)
	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "64b5f0c2a1b2c3d4e5f60718",
		Email:  "ada@example.com",
		Name:   "Ada",
		Role:   "seller",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := manager.VerifyAccessToken(context.Background(), signed)
	require.NoError(t, err)
	require.Equal(t, "64b5f0c2a1b2c3d4e5f60718", claims.UserID)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, "Ada", claims.Name)
	require.Equal(t, "seller", claims.Role)
	require.NotEmpty(t, claims.TokenID)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	manager := newTestJWTManager(t)

	_, err := manager.VerifyAccessToken(context.Background(), "not-a-token")
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyAccessTokenRejectsForeignKey(t *testing.T) {
	first := newTestJWTManager(t)
	second := newTestJWTManager(t)

	signed, err := first.CreateAccessToken(AccessTokenClaims{
		UserID: "64b5f0c2a1b2c3d4e5f60718",
		Email:  "ada@example.com",
		Name:   "Ada",
		Role:   "user",
	})
	require.NoError(t, err)

	_, err = second.VerifyAccessToken(context.Background(), signed)
	require.Error(t, err)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig(t)
	cfg.AccessTokenExpire = -time.Minute

	manager, err := NewJWTManager(cfg)
	require.NoError(t, err)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "64b5f0c2a1b2c3d4e5f60718",
		Email:  "ada@example.com",
		Name:   "Ada",
		Role:   "user",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrTokenExpired))
}

func TestCreateRefreshTokenHashes(t *testing.T) {
	manager := newTestJWTManager(t)

	refresh, err := manager.CreateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, refresh.Token)
	require.NotEqual(t, refresh.Token, refresh.Hash)
	require.True(t, refresh.ExpiresAt.After(time.Now()))

	require.True(t, manager.VerifyRefreshTokenHash(refresh.Token, refresh.Hash))
	require.False(t, manager.VerifyRefreshTokenHash("other", refresh.Hash))
}

func TestJWKSHandlerServesPublicKey(t *testing.T) {
	manager := newTestJWTManager(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil)
	rec := httptest.NewRecorder()
	manager.GetJWKSHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"keys"`)
	require.NotContains(t, rec.Body.String(), `"d"`)
}
