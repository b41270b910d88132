// CBarrera | 2026
// dto.go

package cart

import (
	"time"

	"github.com/cbarrera-dev/storefront/internal/upload"
)

type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type RemoveItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type UpdateItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// ItemProduct is the product snapshot embedded in cart reads.
type ItemProduct struct {
	ID     string         `json:"_id"`
	Name   string         `json:"name"`
	Price  float64        `json:"price"`
	Images []upload.Image `json:"images"`
}

type ItemResponse struct {
	Product  ItemProduct `json:"product"`
	Quantity int         `json:"quantity"`
}

type CartResponse struct {
	ID        string         `json:"_id"`
	Items     []ItemResponse `json:"items"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
