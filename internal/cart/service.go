// CBarrera | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

// ProductRef is the catalog view a cart read embeds per line.
type ProductRef struct {
	ID     string
	Name   string
	Price  float64
	Images []upload.Image
}

// ProductProvider resolves products for cart operations. The catalog
// package implements it.
type ProductProvider interface {
	GetProductRef(ctx context.Context, id string) (*ProductRef, error)
}

// Store is the persistence surface the service needs; *Repository
// implements it.
type Store interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*Cart, error)
	Create(ctx context.Context, c *Cart) error
	Replace(ctx context.Context, c *Cart) error
}

type Service struct {
	repo      Store
	products  ProductProvider
	validator *validator.Validate
	logger    *slog.Logger
}

func NewService(repo Store, products ProductProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		validator: validator.New(),
		logger:    logger,
	}
}

// AddItem puts a product in the cart, creating the cart on first use.
// Adding a product already present increments its line.
func (s *Service) AddItem(ctx context.Context, userID string, req AddItemRequest) (*CartResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, core.ValidationError("invalid product id")
	}

	// Confirms the product still exists before storing the line.
	if _, err := s.products.GetProductRef(ctx, req.ProductID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("product")
		}
		return nil, err
	}

	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := c.findItem(productID); i >= 0 {
		c.Items[i].Quantity += req.Quantity
	} else {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: req.Quantity})
	}

	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, c)
}

// Get returns the cart with each line's product denormalized.
func (s *Service) Get(ctx context.Context, userID string) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

func (s *Service) RemoveItem(ctx context.Context, userID string, req RemoveItemRequest) (*CartResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, core.ValidationError("invalid product id")
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.findItem(productID)
	if i < 0 {
		return nil, core.NotFoundError("cart item")
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)

	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, c)
}

// UpdateItem sets a line to an absolute quantity.
func (s *Service) UpdateItem(ctx context.Context, userID string, req UpdateItemRequest) (*CartResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, core.ValidationError("invalid product id")
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.findItem(productID)
	if i < 0 {
		return nil, core.NotFoundError("cart item")
	}
	c.Items[i].Quantity = req.Quantity

	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, c)
}

func (s *Service) load(ctx context.Context, userID string) (*Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, core.NotFoundError("cart")
	}

	c, err := s.repo.GetByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("cart")
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) loadOrCreate(ctx context.Context, userID string) (*Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, core.NotFoundError("cart")
	}

	c, err := s.repo.GetByUser(ctx, uid)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	c = &Cart{UserID: uid, Items: []CartItem{}}
	if createErr := s.repo.Create(ctx, c); createErr != nil {
		// A concurrent first add won the unique index race; use its cart.
		if errors.Is(createErr, core.ErrDuplicateKey) {
			return s.repo.GetByUser(ctx, uid)
		}
		return nil, createErr
	}
	return c, nil
}

// toResponse resolves every line against the catalog. Lines whose product
// has since been deleted are dropped from the view.
func (s *Service) toResponse(ctx context.Context, c *Cart) (*CartResponse, error) {
	items := make([]ItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		ref, err := s.products.GetProductRef(ctx, item.ProductID.Hex())
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				s.logger.Warn("cart references deleted product",
					"cart_id", c.ID.Hex(), "product_id", item.ProductID.Hex())
				continue
			}
			return nil, fmt.Errorf("resolve cart item: %w", err)
		}

		items = append(items, ItemResponse{
			Product: ItemProduct{
				ID:     ref.ID,
				Name:   ref.Name,
				Price:  ref.Price,
				Images: ref.Images,
			},
			Quantity: item.Quantity,
		})
	}

	return &CartResponse{
		ID:        c.ID.Hex(),
		Items:     items,
		UpdatedAt: c.UpdatedAt,
	}, nil
}
