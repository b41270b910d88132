// CBarrera | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/middleware"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

const blacklistKeyPrefix = "token:blacklist:"

// UserInfo is the account view the auth flows need.
type UserInfo struct {
	ID               string
	Name             string
	Email            string
	Role             string
	Avatar           upload.Image
	PasswordHash     string
	RefreshTokenHash string
}

// UserProvider is the account store the auth service depends on. The user
// package implements it; avatarPath is a local spooled file, empty for a
// generated placeholder.
type UserProvider interface {
	CreateUser(ctx context.Context, name, email, passwordHash, avatarPath string) (*UserInfo, error)
	GetUserByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetUserByID(ctx context.Context, id string) (*UserInfo, error)
	SetRefreshTokenHash(ctx context.Context, userID, hash string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	users      UserProvider
	jwtManager *JWTManager
	redis      *redis.Client
	validator  *validator.Validate
	logger     *slog.Logger
}

var _ middleware.TokenVerifier = (*Service)(nil)

func NewService(
	users UserProvider,
	jwtManager *JWTManager,
	redisClient *redis.Client,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		jwtManager: jwtManager,
		redis:      redisClient,
		validator:  validator.New(),
		logger:     logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	avatarPath string,
) (*UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req.Name, req.Email, passwordHash, avatarPath)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)

	resp := toUserResponse(user)
	return &resp, nil
}

// Login verifies credentials and mints the token pair. Unknown email and
// wrong password are indistinguishable to the caller, and both take a
// password hash comparison.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, *RefreshTokenData, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, core.ValidationError(core.FormatValidationError(err))
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, nil, fmt.Errorf("load user for login: %w", err)
	}

	var storedHash *string
	if err == nil {
		storedHash = &user.PasswordHash
	}
	if !core.VerifyPasswordTimingSafe(req.Password, storedHash) {
		return nil, nil, core.UnauthorizedError("invalid email or password")
	}

	accessToken, err := s.jwtManager.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwtManager.CreateRefreshToken()
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.ID, refresh.Hash); err != nil {
		return nil, nil, fmt.Errorf("persist refresh token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResponse{
		User:        toUserResponse(user),
		AccessToken: accessToken,
	}, refresh, nil
}

// Logout invalidates the session: the stored refresh hash is cleared and
// the access token's jti is blacklisted until its natural expiry.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if err := s.users.SetRefreshTokenHash(ctx, claims.UserID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	if err := s.blacklistToken(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		// The refresh hash is already gone, so the session cannot be
		// renewed. Log and continue.
		s.logger.Warn("blacklist access token failed",
			"user_id", claims.UserID, "error", err)
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	if err := s.validator.Struct(req); err != nil {
		return core.ValidationError(core.FormatValidationError(err))
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !core.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		return core.UnauthorizedError("current password is incorrect")
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// VerifyAccessToken checks the signature and claims, then rejects tokens
// revoked by logout.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwtManager.VerifyAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		revoked, err := s.redis.Exists(ctx, blacklistKeyPrefix+claims.TokenID).Result()
		if err != nil {
			s.logger.Warn("blacklist check failed", "error", err)
		} else if revoked > 0 {
			return nil, core.TokenRevokedError()
		}
	}

	return claims, nil
}

func (s *Service) blacklistToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.redis == nil {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return s.redis.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err()
}

func toUserResponse(user *UserInfo) UserResponse {
	return UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Avatar: user.Avatar,
	}
}
