package services

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestCartService(products ...*models.Product) (*CartService, *memCache) {
	cache := newMemCache()
	return NewCartService(cache, newMockProductRepo(products...), time.Hour), cache
}

func TestAddItemMergesQuantities(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	p2 := &models.Product{ID: primitive.NewObjectID(), Name: "Mouse", Price: 5}
	svc, _ := newTestCartService(p1, p2)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "customer1", nil, p1.ID.Hex(), 2)
	require.NoError(t, err)
	cart, err = svc.AddItem(ctx, "customer1", cart, p2.ID.Hex(), 1)
	require.NoError(t, err)
	cart, err = svc.AddItem(ctx, "customer1", cart, p1.ID.Hex(), 3)
	require.NoError(t, err)

	require.Len(t, cart, 2)
	assert.Equal(t, p1.ID.Hex(), cart[0].ProductID)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.Equal(t, p2.ID.Hex(), cart[1].ProductID)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, cache := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "customer1", nil, primitive.NewObjectID().Hex(), 1)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.Error)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
	assert.False(t, cache.has("cart:user:customer1"))
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	svc, _ := newTestCartService(p1)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "customer1", nil, p1.ID.Hex(), 2)
	require.NoError(t, err)

	cart, err = svc.RemoveItem(ctx, "customer1", cart, p1.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, cart)

	// Removing again is a no-op.
	cart, err = svc.RemoveItem(ctx, "customer1", cart, p1.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, cart)

	loaded := svc.Load(ctx, "customer1", nil)
	for _, item := range loaded {
		assert.NotEqual(t, p1.ID.Hex(), item.ProductID)
	}
}

func TestUpdateItemAbsentLineDoesNotCreate(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	svc, _ := newTestCartService(p1)
	ctx := context.Background()

	cart, err := svc.UpdateItem(ctx, "customer1", nil, p1.ID.Hex(), 7)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestLoadCookieWinsOverCache(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	svc, _ := newTestCartService(p1)
	ctx := context.Background()

	// Cache copy says quantity 2.
	_, err := svc.AddItem(ctx, "customer1", nil, p1.ID.Hex(), 2)
	require.NoError(t, err)

	// Cookie copy says quantity 9; it takes precedence.
	cookie := []models.CartItem{{ProductID: p1.ID.Hex(), Quantity: 9}}
	loaded := svc.Load(ctx, "customer1", cookie)
	require.Len(t, loaded, 1)
	assert.Equal(t, 9, loaded[0].Quantity)
}

func TestLoadFallsBackToCacheThenEmpty(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	svc, _ := newTestCartService(p1)
	ctx := context.Background()

	assert.Empty(t, svc.Load(ctx, "customer1", nil))

	_, err := svc.AddItem(ctx, "customer1", nil, p1.ID.Hex(), 2)
	require.NoError(t, err)

	loaded := svc.Load(ctx, "customer1", nil)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2, loaded[0].Quantity)
}

func TestGetCartPricesLinesAndDropsMissingProducts(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	svc, _ := newTestCartService(p1)
	ctx := context.Background()

	gone := primitive.NewObjectID().Hex()
	cookie := []models.CartItem{
		{ProductID: p1.ID.Hex(), Quantity: 2},
		{ProductID: gone, Quantity: 1},
	}

	items, err := svc.GetCart(ctx, "customer1", cookie)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p1.ID, items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestClearDeletesCacheCopy(t *testing.T) {
	p1 := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	svc, cache := newTestCartService(p1)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "customer1", nil, p1.ID.Hex(), 2)
	require.NoError(t, err)
	require.True(t, cache.has("cart:user:customer1"))

	require.NoError(t, svc.Clear(ctx, "customer1"))
	assert.False(t, cache.has("cart:user:customer1"))
	assert.Empty(t, svc.Load(ctx, "customer1", nil))
}
