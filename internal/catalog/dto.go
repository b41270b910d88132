// CBarrera | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/cbarrera-dev/storefront/internal/upload"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,oneof=Electronics Wearables Accessories"`
}

// UpdateProductRequest carries a partial update; nil fields are unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Electronics Wearables Accessories"`
}

// ListParams are the catalog browse filters. Price bounds are inclusive.
type ListParams struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortField string
	SortAsc   bool
	Page      int
	Limit     int
}

// Normalize clamps pagination to sane values.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
}

type ProductResponse struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Images      []upload.Image `json:"images"`
	Seller      SellerRef      `json:"seller"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type ListResponse struct {
	Products    []ProductResponse `json:"products"`
	TotalPages  int64             `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Total       int64             `json:"total"`
}

func toResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      p.Images,
		Seller:      p.Seller,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
