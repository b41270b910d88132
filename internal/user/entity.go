// CBarrera | 2026
// entity.go

package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cbarrera-dev/storefront/internal/upload"
)

const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

type Address struct {
	Country     string `bson:"country" json:"country"`
	City        string `bson:"city" json:"city"`
	Address1    string `bson:"address1" json:"address1"`
	Address2    string `bson:"address2,omitempty" json:"address2,omitempty"`
	ZipCode     string `bson:"zip_code" json:"zipCode"`
	AddressType string `bson:"address_type,omitempty" json:"addressType,omitempty"`
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	PasswordHash     string             `bson:"password_hash"`
	PhoneNumber      string             `bson:"phone_number,omitempty"`
	Role             string             `bson:"role"`
	Avatar           upload.Image       `bson:"avatar"`
	Addresses        []Address          `bson:"addresses,omitempty"`
	RefreshTokenHash string             `bson:"refresh_token_hash,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

// HasPlaceholderAvatar reports whether the avatar was generated rather than
// uploaded.
func (u *User) HasPlaceholderAvatar() bool {
	return u.Avatar.IsPlaceholder()
}
