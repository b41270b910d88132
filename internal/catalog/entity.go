// CBarrera | 2026
// entity.go

package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cbarrera-dev/storefront/internal/upload"
)

const (
	CategoryElectronics = "Electronics"
	CategoryWearables   = "Wearables"
	CategoryAccessories = "Accessories"
)

// Categories is the closed set of product categories.
var Categories = []string{
	CategoryElectronics,
	CategoryWearables,
	CategoryAccessories,
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// SellerRef is the seller identity denormalized onto each product so list
// and detail reads never join the users collection.
type SellerRef struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Images      []upload.Image     `bson:"images"`
	SellerID    primitive.ObjectID `bson:"seller_id"`
	Seller      SellerRef          `bson:"seller"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}
