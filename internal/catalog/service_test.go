// CBarrera | 2026
// service_test.go

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cbarrera-dev/storefront/internal/config"
	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

type fakeStore struct {
	products  map[string]*Product
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[string]*Product)}
}

func (f *fakeStore) Create(_ context.Context, p *Product) error {
	p.ID = primitive.NewObjectID()
	copied := *p
	f.products[p.ID.Hex()] = &copied
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("parse product id: %w", core.ErrNotFound)
	}
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("find product: %w", core.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) Update(_ context.Context, p *Product) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.products[p.ID.Hex()]; !ok {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	copied := *p
	f.products[p.ID.Hex()] = &copied
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id.Hex()]; !ok {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}
	delete(f.products, id.Hex())
	return nil
}

func (f *fakeStore) List(_ context.Context, params ListParams) ([]Product, int64, error) {
	var matched []Product
	for _, p := range f.products {
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.MinPrice != nil && p.Price < *params.MinPrice {
			continue
		}
		if params.MaxPrice != nil && p.Price > *params.MaxPrice {
			continue
		}
		matched = append(matched, *p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if params.SortField == "price" {
			if params.SortAsc {
				return matched[i].Price < matched[j].Price
			}
			return matched[i].Price > matched[j].Price
		}
		return matched[i].Name < matched[j].Name
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

type fakeUploader struct {
	mu        sync.Mutex
	uploads   int
	failOn    map[string]bool
	destroyed []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (*upload.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn[localPath] {
		return nil, fmt.Errorf("image host rejected %s", localPath)
	}
	f.uploads++
	id := fmt.Sprintf("img-%d", f.uploads)
	return &upload.Image{PublicID: id, URL: "https://cdn.example/" + id}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type fakeSellers struct{}

func (fakeSellers) GetSellerRef(_ context.Context, _ string) (*SellerRef, error) {
	return &SellerRef{Name: "Ada", Email: "ada@example.com"}, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeUploader) {
	t.Helper()

	store := newFakeStore()
	uploader := &fakeUploader{failOn: make(map[string]bool)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.UploadConfig{CleanupOrphans: true}

	return NewService(store, fakeSellers{}, uploader, cfg, logger), store, uploader
}

func validCreateRequest() CreateProductRequest {
	return CreateProductRequest{
		Name:        "Ultrabook",
		Description: "Thin and light",
		Price:       1299.99,
		Category:    CategoryElectronics,
	}
}

func sellerID() string {
	return "64b5f0c2a1b2c3d4e5f60718"
}

func TestCreateRequiresImages(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), sellerID(), validCreateRequest(), nil)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestCreateRejectsTooManyImages(t *testing.T) {
	svc, _, _ := newTestService(t)

	paths := []string{"a", "b", "c", "d", "e", "f"}
	_, err := svc.Create(context.Background(), sellerID(), validCreateRequest(), paths)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validCreateRequest()
	req.Category = "Furniture"
	_, err := svc.Create(context.Background(), sellerID(), req, []string{"a"})
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validCreateRequest()
	req.Price = -1
	_, err := svc.Create(context.Background(), sellerID(), req, []string{"a"})
	require.Error(t, err)
}

func TestCreateSucceedsWithDenormalizedSeller(t *testing.T) {
	svc, store, uploader := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, product.Images, 3)
	require.Equal(t, "Ada", product.Seller.Name)
	require.Equal(t, "ada@example.com", product.Seller.Email)
	require.Equal(t, 3, uploader.uploads)
	require.Len(t, store.products, 1)
}

func TestCreateUploadFailureDestroysCompleted(t *testing.T) {
	svc, store, uploader := newTestService(t)
	uploader.failOn["bad"] = true

	_, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a", "bad", "c"})
	require.Error(t, err)
	require.Empty(t, store.products)

	// Every upload that finished before the failure must have been torn
	// down again.
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	require.Len(t, uploader.destroyed, uploader.uploads)
}

func TestGetMalformedIDIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "not-an-object-id")
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	svc, _, _ := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a"})
	require.NoError(t, err)

	other := primitive.NewObjectID().Hex()
	price := 99.0
	_, err = svc.Update(context.Background(), other, product.ID,
		UpdateProductRequest{Price: &price}, nil)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a"})
	require.NoError(t, err)

	price := 999.0
	updated, err := svc.Update(context.Background(), sellerID(), product.ID,
		UpdateProductRequest{Price: &price}, nil)
	require.NoError(t, err)
	require.Equal(t, price, updated.Price)
	require.Equal(t, product.Name, updated.Name)
	require.Equal(t, product.Images, updated.Images)
}

func TestUpdateReplacementImagesDestroyPrevious(t *testing.T) {
	svc, _, uploader := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a", "b"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), sellerID(), product.ID,
		UpdateProductRequest{}, []string{"c"})
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	require.Len(t, uploader.destroyed, 2)
}

func TestUpdateStoreFailureKeepsCurrentImages(t *testing.T) {
	svc, store, uploader := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a", "b"})
	require.NoError(t, err)

	// A write failure on an edit without replacement images must leave the
	// hosted images alone: the stored document still references them.
	store.updateErr = fmt.Errorf("write timeout")
	price := 49.0
	_, err = svc.Update(context.Background(), sellerID(), product.ID,
		UpdateProductRequest{Price: &price}, nil)
	require.Error(t, err)
	require.Empty(t, uploader.destroyed)
}

func TestUpdateStoreFailureDestroysOnlyNewBatch(t *testing.T) {
	svc, store, uploader := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a", "b"})
	require.NoError(t, err)

	store.updateErr = fmt.Errorf("write timeout")
	_, err = svc.Update(context.Background(), sellerID(), product.ID,
		UpdateProductRequest{}, []string{"c"})
	require.Error(t, err)

	// img-1 and img-2 back the stored document; only the replacement upload
	// img-3 is orphaned by the failed write.
	require.Equal(t, []string{"img-3"}, uploader.destroyed)
}

func TestDeleteDestroysImagesAndDocument(t *testing.T) {
	svc, store, uploader := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), sellerID(), product.ID))
	require.Empty(t, store.products)
	require.Len(t, uploader.destroyed, 2)
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	svc, store, _ := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), primitive.NewObjectID().Hex(), product.ID)
	require.Error(t, err)
	require.Len(t, store.products, 1)
}

func TestListPaginates(t *testing.T) {
	svc, _, _ := newTestService(t)

	for i := range 5 {
		req := validCreateRequest()
		req.Name = fmt.Sprintf("Product %d", i)
		req.Price = float64(100 * (i + 1))
		_, err := svc.Create(context.Background(), sellerID(), req, []string{"a"})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), ListParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	require.Equal(t, int64(5), resp.Total)
	require.Equal(t, int64(3), resp.TotalPages)
	require.Equal(t, 2, resp.CurrentPage)
}

func TestListFiltersByPrice(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, price := range []float64{50, 150, 250} {
		req := validCreateRequest()
		req.Name = fmt.Sprintf("Item %.0f", price)
		req.Price = price
		_, err := svc.Create(context.Background(), sellerID(), req, []string{"a"})
		require.NoError(t, err)
	}

	low, high := 100.0, 200.0
	resp, err := svc.List(context.Background(), ListParams{
		MinPrice: &low,
		MaxPrice: &high,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	require.Equal(t, 150.0, resp.Products[0].Price)
}

func TestGetProductRefForCart(t *testing.T) {
	svc, _, _ := newTestService(t)

	product, err := svc.Create(context.Background(), sellerID(), validCreateRequest(),
		[]string{"a"})
	require.NoError(t, err)

	ref, err := svc.GetProductRef(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, product.ID, ref.ID)
	require.Equal(t, product.Price, ref.Price)
	require.Len(t, ref.Images, 1)
}
