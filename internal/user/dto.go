// CBarrera | 2026
// dto.go

package user

import (
	"time"

	"github.com/cbarrera-dev/storefront/internal/upload"
)

type AddressRequest struct {
	Country     string `json:"country" validate:"required"`
	City        string `json:"city" validate:"required"`
	Address1    string `json:"address1" validate:"required"`
	Address2    string `json:"address2"`
	ZipCode     string `json:"zipCode" validate:"required"`
	AddressType string `json:"addressType"`
}

// UpdateProfileRequest carries a partial update; nil fields are unchanged.
// A non-nil Addresses slice replaces the stored set wholesale.
type UpdateProfileRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string          `json:"phoneNumber" validate:"omitempty,max=32"`
	Addresses   []AddressRequest `json:"addresses" validate:"omitempty,dive"`
}

type UserResponse struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phoneNumber,omitempty"`
	Role        string       `json:"role"`
	Avatar      upload.Image `json:"avatar"`
	Addresses   []Address    `json:"addresses,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func toResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:          u.ID.Hex(),
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Avatar:      u.Avatar,
		Addresses:   u.Addresses,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
