package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BekmurodFoziloff/e-commerce/middleware"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"github.com/BekmurodFoziloff/e-commerce/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCache struct {
	data map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *memCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type stubProductRepo struct {
	products map[string]*models.Product
}

func (s *stubProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := s.products[id.Hex()]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (s *stubProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	found := []models.Product{}
	for _, id := range ids {
		if p, ok := s.products[id.Hex()]; ok {
			found = append(found, *p)
		}
	}
	return found, nil
}

func newTestRouter(user *models.User, products ...*models.Product) *gin.Engine {
	gin.SetMode(gin.TestMode)

	productRepo := &stubProductRepo{products: make(map[string]*models.Product)}
	for _, p := range products {
		productRepo.products[p.ID.Hex()] = p
	}
	carts := services.NewCartService(&memCache{data: make(map[string][]byte)}, productRepo, time.Hour)
	controller := NewCartController(carts, time.Hour)

	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(middleware.UserKey, user)
		c.Next()
	}
	cart := r.Group("/cart", auth)
	{
		cart.GET("", controller.GetCart)
		cart.POST("/new", controller.AddItem)
		cart.PATCH("/:productId/update", controller.UpdateItem)
		cart.DELETE("/:productId/delete", controller.RemoveItem)
	}
	return r
}

func encodeCartCookie(t *testing.T, cart []models.CartItem) *http.Cookie {
	t.Helper()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	return &http.Cookie{Name: "cart", Value: base64.URLEncoding.EncodeToString(data)}
}

func TestAddItemSetsCookieAndReturns201(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	product := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	router := newTestRouter(user, product)

	body, _ := json.Marshal(models.CartItem{ProductID: product.ID.Hex(), Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/new", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Item added to cart")

	var cartCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "cart" {
			cartCookie = cookie
		}
	}
	require.NotNil(t, cartCookie, "cart mutations must re-issue the cart cookie")
	assert.True(t, cartCookie.HttpOnly)

	data, err := base64.URLEncoding.DecodeString(cartCookie.Value)
	require.NoError(t, err)
	var cart []models.CartItem
	require.NoError(t, json.Unmarshal(data, &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddItemUnknownProductReturns404(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	router := newTestRouter(user)

	body, _ := json.Marshal(models.CartItem{ProductID: primitive.NewObjectID().Hex(), Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/new", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItemInvalidPayloadReturns400(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	router := newTestRouter(user)

	req := httptest.NewRequest(http.MethodPost, "/cart/new", bytes.NewReader([]byte(`{"quantity":0}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCartPricesCookieCart(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	product := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	router := newTestRouter(user, product)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(encodeCartCookie(t, []models.CartItem{{ProductID: product.ID.Hex(), Quantity: 3}}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var items []models.PricedCartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 10.0, items[0].Product.Price)
}

func TestRemoveItemFromCookieCart(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	product := &models.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 10}
	router := newTestRouter(user, product)

	req := httptest.NewRequest(http.MethodDelete, "/cart/"+product.ID.Hex()+"/delete", nil)
	req.AddCookie(encodeCartCookie(t, []models.CartItem{{ProductID: product.ID.Hex(), Quantity: 3}}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Item removed from cart")
}
