// CBarrera | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/cbarrera-dev/storefront/internal/cart"
	"github.com/cbarrera-dev/storefront/internal/config"
	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

const (
	minProductImages = 1
	maxProductImages = 5
)

// SellerProvider resolves the denormalized seller identity stored on each
// product. The user package implements it.
type SellerProvider interface {
	GetSellerRef(ctx context.Context, userID string) (*SellerRef, error)
}

// Store is the persistence surface the service needs; *Repository
// implements it.
type Store interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params ListParams) ([]Product, int64, error)
}

type Service struct {
	repo      Store
	sellers   SellerProvider
	uploader  upload.Uploader
	uploadCfg config.UploadConfig
	validator *validator.Validate
	logger    *slog.Logger
}

var _ cart.ProductProvider = (*Service)(nil)

func NewService(
	repo Store,
	sellers SellerProvider,
	uploader upload.Uploader,
	uploadCfg config.UploadConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		sellers:   sellers,
		uploader:  uploader,
		uploadCfg: uploadCfg,
		validator: validator.New(),
		logger:    logger,
	}
}

// Create lists a new product. All images must upload before anything is
// persisted; a single failure abandons the listing.
func (s *Service) Create(
	ctx context.Context,
	sellerID string,
	req CreateProductRequest,
	imagePaths []string,
) (*ProductResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}
	if len(imagePaths) < minProductImages || len(imagePaths) > maxProductImages {
		return nil, core.ValidationError(fmt.Sprintf(
			"between %d and %d images required", minProductImages, maxProductImages))
	}

	sellerOID, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, core.UnauthorizedError("authentication required")
	}

	seller, err := s.sellers.GetSellerRef(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("resolve seller: %w", err)
	}

	images, err := s.uploadImages(ctx, imagePaths)
	if err != nil {
		return nil, fmt.Errorf("upload product images: %w", err)
	}

	p := &Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      images,
		SellerID:    sellerOID,
		Seller:      *seller,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.destroyImages(context.WithoutCancel(ctx), images)
		return nil, err
	}

	s.logger.Info("product created", "product_id", p.ID.Hex(), "seller_id", sellerID)

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ProductResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("product")
		}
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	params.Normalize()

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toResponse(&products[i]))
	}

	totalPages := (total + int64(params.Limit) - 1) / int64(params.Limit)

	return &ListResponse{
		Products:    responses,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		Total:       total,
	}, nil
}

// Update applies a partial edit to an owned product. Replacement images,
// when supplied, must all upload before any field changes; the previous
// images are then destroyed best-effort.
func (s *Service) Update(
	ctx context.Context,
	sellerID, productID string,
	req UpdateProductRequest,
	imagePaths []string,
) (*ProductResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}
	if len(imagePaths) > maxProductImages {
		return nil, core.ValidationError(fmt.Sprintf(
			"at most %d images allowed", maxProductImages))
	}

	p, err := s.getOwned(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = *req.Category
	}

	var previous, uploaded []upload.Image
	if len(imagePaths) > 0 {
		uploaded, err = s.uploadImages(ctx, imagePaths)
		if err != nil {
			return nil, fmt.Errorf("upload product images: %w", err)
		}
		previous = p.Images
		p.Images = uploaded
	}

	if err := s.repo.Update(ctx, p); err != nil {
		// Only the batch uploaded for this edit is orphaned; the stored
		// document still references the previous images.
		s.destroyImages(context.WithoutCancel(ctx), uploaded)
		return nil, err
	}
	s.destroyImages(ctx, previous)

	s.logger.Info("product updated", "product_id", productID, "seller_id", sellerID)

	resp := toResponse(p)
	return &resp, nil
}

// Delete removes an owned product, destroying its hosted images first.
// Image host failures are logged, never surfaced.
func (s *Service) Delete(ctx context.Context, sellerID, productID string) error {
	p, err := s.getOwned(ctx, sellerID, productID)
	if err != nil {
		return err
	}

	s.destroyImages(ctx, p.Images)

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("product")
		}
		return err
	}

	s.logger.Info("product deleted", "product_id", productID, "seller_id", sellerID)
	return nil
}

// GetProductRef backs cart reads with the subset of product fields they
// embed.
func (s *Service) GetProductRef(ctx context.Context, id string) (*cart.ProductRef, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &cart.ProductRef{
		ID:     p.ID.Hex(),
		Name:   p.Name,
		Price:  p.Price,
		Images: p.Images,
	}, nil
}

func (s *Service) getOwned(ctx context.Context, sellerID, productID string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("product")
		}
		return nil, err
	}

	if p.SellerID.Hex() != sellerID {
		return nil, core.ForbiddenError("product belongs to another seller")
	}
	return p, nil
}

// uploadImages sends every file to the image host concurrently. On any
// failure the uploads that did finish are destroyed, subject to the
// cleanup_orphans setting, and the whole batch fails.
func (s *Service) uploadImages(ctx context.Context, paths []string) ([]upload.Image, error) {
	images := make([]upload.Image, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			img, err := s.uploader.Upload(gctx, path)
			if err != nil {
				return err
			}
			images[i] = *img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		core.SetSpanError(ctx, err)
		if s.uploadCfg.CleanupOrphans {
			completed := make([]upload.Image, 0, len(images))
			for _, img := range images {
				if img.PublicID != "" {
					completed = append(completed, img)
				}
			}
			s.destroyImages(context.WithoutCancel(ctx), completed)
		}
		return nil, err
	}

	return images, nil
}

func (s *Service) destroyImages(ctx context.Context, images []upload.Image) {
	for _, img := range images {
		if img.IsPlaceholder() {
			continue
		}
		if err := s.uploader.Destroy(ctx, img.PublicID); err != nil {
			s.logger.Warn("destroy image failed", "public_id", img.PublicID, "error", err)
		}
	}
}
