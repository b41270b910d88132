// CBarrera | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cbarrera-dev/storefront/internal/auth"
	"github.com/cbarrera-dev/storefront/internal/catalog"
	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/middleware"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

// Store is the persistence surface the service needs; *Repository
// implements it.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	SetRefreshTokenHash(ctx context.Context, id, hash string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id, role string) error
}

type Service struct {
	repo      Store
	uploader  upload.Uploader
	avatars   *upload.AvatarGenerator
	validator *validator.Validate
	logger    *slog.Logger
}

var (
	_ auth.UserProvider       = (*Service)(nil)
	_ middleware.UserResolver = (*Service)(nil)
	_ catalog.SellerProvider  = (*Service)(nil)
)

func NewService(
	repo Store,
	uploader upload.Uploader,
	avatars *upload.AvatarGenerator,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		uploader:  uploader,
		avatars:   avatars,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateUser provisions an account. A spooled avatar file is sent to the
// image host; without one the account gets a generated placeholder.
func (s *Service) CreateUser(
	ctx context.Context,
	name, email, passwordHash, avatarPath string,
) (*auth.UserInfo, error) {
	avatar := s.avatars.Placeholder(name)
	if avatarPath != "" {
		uploaded, err := s.uploader.Upload(ctx, avatarPath)
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		avatar = *uploaded
	}

	u := &User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Avatar:       avatar,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.destroyAvatar(ctx, avatar)
			return nil, core.DuplicateError("email")
		}
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	return s.repo.SetRefreshTokenHash(ctx, userID, hash)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// ResolveUser backs the authenticator: a token for a deleted account must
// not authenticate.
func (s *Service) ResolveUser(ctx context.Context, userID string) (any, string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return u, u.Role, nil
}

// GetSellerRef supplies the denormalized seller identity stored on each
// product.
func (s *Service) GetSellerRef(ctx context.Context, userID string) (*catalog.SellerRef, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &catalog.SellerRef{Name: u.Name, Email: u.Email}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, err
	}
	return toResponse(u), nil
}

// UpdateProfile applies a partial update. A supplied avatar file replaces
// the stored one; when no file is given and the current avatar is a
// placeholder, a name change reseeds it.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
	avatarPath string,
) (*UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Addresses != nil {
		addresses := make([]Address, 0, len(req.Addresses))
		for _, a := range req.Addresses {
			addresses = append(addresses, Address{
				Country:     a.Country,
				City:        a.City,
				Address1:    a.Address1,
				Address2:    a.Address2,
				ZipCode:     a.ZipCode,
				AddressType: a.AddressType,
			})
		}
		u.Addresses = addresses
	}

	switch {
	case avatarPath != "":
		uploaded, err := s.uploader.Upload(ctx, avatarPath)
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		s.destroyAvatar(ctx, u.Avatar)
		u.Avatar = *uploaded
	case u.HasPlaceholderAvatar():
		u.Avatar = s.avatars.Placeholder(u.Name)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return toResponse(u), nil
}

// BecomeSeller promotes a buyer account. Promoting twice is an error.
func (s *Service) BecomeSeller(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, err
	}

	if u.Role == RoleSeller {
		return nil, core.ValidationError("account is already a seller")
	}

	if err := s.repo.UpdateRole(ctx, userID, RoleSeller); err != nil {
		return nil, err
	}

	u.Role = RoleSeller
	s.logger.Info("account promoted to seller", "user_id", userID)
	return toResponse(u), nil
}

func (s *Service) destroyAvatar(ctx context.Context, avatar upload.Image) {
	if avatar.IsPlaceholder() {
		return
	}
	if err := s.uploader.Destroy(ctx, avatar.PublicID); err != nil {
		s.logger.Warn("destroy avatar failed", "public_id", avatar.PublicID, "error", err)
	}
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:               u.ID.Hex(),
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Avatar:           u.Avatar,
		PasswordHash:     u.PasswordHash,
		RefreshTokenHash: u.RefreshTokenHash,
	}
}
