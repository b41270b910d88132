// CBarrera | 2026
// service_test.go

package cart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cbarrera-dev/storefront/internal/core"
	"github.com/cbarrera-dev/storefront/internal/upload"
)

type fakeStore struct {
	carts map[string]*Cart
}

func newFakeStore() *fakeStore {
	return &fakeStore{carts: make(map[string]*Cart)}
}

func (f *fakeStore) GetByUser(_ context.Context, userID primitive.ObjectID) (*Cart, error) {
	c, ok := f.carts[userID.Hex()]
	if !ok {
		return nil, fmt.Errorf("find cart: %w", core.ErrNotFound)
	}
	copied := *c
	copied.Items = append([]CartItem(nil), c.Items...)
	return &copied, nil
}

func (f *fakeStore) Create(_ context.Context, c *Cart) error {
	if _, ok := f.carts[c.UserID.Hex()]; ok {
		return fmt.Errorf("insert cart: %w", core.ErrDuplicateKey)
	}
	c.ID = primitive.NewObjectID()
	copied := *c
	f.carts[c.UserID.Hex()] = &copied
	return nil
}

func (f *fakeStore) Replace(_ context.Context, c *Cart) error {
	for _, existing := range f.carts {
		if existing.ID == c.ID {
			copied := *c
			copied.Items = append([]CartItem(nil), c.Items...)
			f.carts[c.UserID.Hex()] = &copied
			return nil
		}
	}
	return fmt.Errorf("update cart: %w", core.ErrNotFound)
}

type fakeProducts struct {
	refs map[string]*ProductRef
}

func (f *fakeProducts) GetProductRef(_ context.Context, id string) (*ProductRef, error) {
	ref, ok := f.refs[id]
	if !ok {
		return nil, fmt.Errorf("find product: %w", core.ErrNotFound)
	}
	return ref, nil
}

func newTestService(t *testing.T) (*Service, *fakeProducts) {
	t.Helper()

	products := &fakeProducts{refs: make(map[string]*ProductRef)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(newFakeStore(), products, logger), products
}

func addProduct(products *fakeProducts, name string, price float64) string {
	id := primitive.NewObjectID().Hex()
	products.refs[id] = &ProductRef{
		ID:     id,
		Name:   name,
		Price:  price,
		Images: []upload.Image{{PublicID: "img-1", URL: "https://cdn.example/img-1"}},
	}
	return id
}

func userID() string {
	return primitive.NewObjectID().Hex()
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, status, appErr.Status)
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)
	uid := userID()

	cart, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  1,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, "Watch", cart.Items[0].Product.Name)
	require.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  2,
	})
	require.NoError(t, err)

	cart, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  3,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), userID(), AddItemRequest{
		ProductID: primitive.NewObjectID().Hex(),
		Quantity:  1,
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)

	_, err := svc.AddItem(context.Background(), userID(), AddItemRequest{
		ProductID: productID,
		Quantity:  0,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestAddItemRejectsMalformedProductID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), userID(), AddItemRequest{
		ProductID: "not-an-id",
		Quantity:  1,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestGetWithoutCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), userID())
	requireStatus(t, err, http.StatusNotFound)
}

func TestGetDenormalizesProducts(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  2,
	})
	require.NoError(t, err)

	cart, err := svc.Get(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, "Watch", cart.Items[0].Product.Name)
	require.Equal(t, 199.0, cart.Items[0].Product.Price)
	require.NotEmpty(t, cart.Items[0].Product.Images)
}

func TestGetDropsDeletedProducts(t *testing.T) {
	svc, products := newTestService(t)
	keep := addProduct(products, "Watch", 199)
	gone := addProduct(products, "Phone", 899)
	uid := userID()

	for _, id := range []string{keep, gone} {
		_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
			ProductID: id,
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	delete(products.refs, gone)

	cart, err := svc.Get(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, "Watch", cart.Items[0].Product.Name)
}

func TestRemoveItem(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  1,
	})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), uid, RemoveItemRequest{
		ProductID: productID,
	})
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}

func TestRemoveItemNotInCart(t *testing.T) {
	svc, products := newTestService(t)
	inCart := addProduct(products, "Watch", 199)
	other := addProduct(products, "Phone", 899)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: inCart,
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = svc.RemoveItem(context.Background(), uid, RemoveItemRequest{
		ProductID: other,
	})
	requireStatus(t, err, http.StatusNotFound)

	cart, err := svc.Get(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  5,
	})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(context.Background(), uid, UpdateItemRequest{
		ProductID: productID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateItemRejectsZeroQuantityUnchanged(t *testing.T) {
	svc, products := newTestService(t)
	productID := addProduct(products, "Watch", 199)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: productID,
		Quantity:  3,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), uid, UpdateItemRequest{
		ProductID: productID,
		Quantity:  0,
	})
	requireStatus(t, err, http.StatusBadRequest)

	cart, err := svc.Get(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, 3, cart.Items[0].Quantity)
}

func TestUpdateItemMissingLine(t *testing.T) {
	svc, products := newTestService(t)
	inCart := addProduct(products, "Watch", 199)
	other := addProduct(products, "Phone", 899)
	uid := userID()

	_, err := svc.AddItem(context.Background(), uid, AddItemRequest{
		ProductID: inCart,
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), uid, UpdateItemRequest{
		ProductID: other,
		Quantity:  2,
	})
	requireStatus(t, err, http.StatusNotFound)
}
