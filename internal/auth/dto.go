// CBarrera | 2026
// dto.go

package auth

import "github.com/cbarrera-dev/storefront/internal/upload"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// UserResponse is the compact account shape returned by the auth endpoints.
type UserResponse struct {
	ID     string       `json:"_id"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Role   string       `json:"role"`
	Avatar upload.Image `json:"avatar"`
}

type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}
