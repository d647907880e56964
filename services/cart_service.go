package services

import (
	"context"
	"errors"
	"time"

	"github.com/BekmurodFoziloff/e-commerce/cache"
	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartService owns cart read/merge/mutate logic. The cart lives in two places
// at once: an http-only cookie carried by the client and a cache entry keyed
// by customer. The cookie copy is passed in by the controller and wins on
// read when present; every mutation writes the cache and returns the updated
// cart for the controller to re-issue as a cookie. The cart has no durable
// representation.
type CartService struct {
	cache    cache.Store
	products repository.ProductRepository
	cartTTL  time.Duration
}

func NewCartService(cacheStore cache.Store, products repository.ProductRepository, cartTTL time.Duration) *CartService {
	return &CartService{
		cache:    cacheStore,
		products: products,
		cartTTL:  cartTTL,
	}
}

func cartKey(customerID string) string {
	return "cart:user:" + customerID
}

// Load returns the current cart: the cookie copy when present, else the cache
// copy, else an empty cart. A cache failure degrades to an empty cart rather
// than failing the read; both copies are allowed to be stale or absent.
func (s *CartService) Load(ctx context.Context, customerID string, cookieCart []models.CartItem) []models.CartItem {
	if len(cookieCart) > 0 {
		return cookieCart
	}

	var cached []models.CartItem
	found, err := s.cache.Get(ctx, cartKey(customerID), &cached)
	if err != nil {
		zap.L().Warn("Failed to read cart from cache", zap.Error(err), zap.String("customer_id", customerID))
		return []models.CartItem{}
	}
	if !found {
		return []models.CartItem{}
	}
	return cached
}

// GetCart resolves the current cart against the catalog and returns priced
// line items. Lines whose product no longer exists are dropped.
func (s *CartService) GetCart(ctx context.Context, customerID string, cookieCart []models.CartItem) ([]models.PricedCartItem, error) {
	cart := s.Load(ctx, customerID, cookieCart)

	ids := make([]primitive.ObjectID, 0, len(cart))
	for _, item := range cart {
		if oid, err := primitive.ObjectIDFromHex(item.ProductID); err == nil {
			ids = append(ids, oid)
		}
	}

	items := []models.PricedCartItem{}
	if len(ids) == 0 {
		return items, nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID.Hex()] = &products[i]
	}

	for _, item := range cart {
		if product, ok := byID[item.ProductID]; ok {
			items = append(items, models.PricedCartItem{Product: product, Quantity: item.Quantity})
		}
	}
	return items, nil
}

// AddItem adds quantity of a product to the cart, merging into an existing
// line when one is present. The product must resolve in the catalog.
func (s *CartService) AddItem(ctx context.Context, customerID string, cookieCart []models.CartItem, productID string, quantity int) ([]models.CartItem, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperrors.NotFound("Product with id %s not found", productID)
	}
	if _, err := s.products.FindByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperrors.NotFound("Product with id %s not found", productID)
		}
		return nil, err
	}

	cart := s.Load(ctx, customerID, cookieCart)
	merged := false
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart = append(cart, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.save(ctx, customerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem replaces the quantity of an existing line. Absent lines are left
// alone; this does not auto-create.
func (s *CartService) UpdateItem(ctx context.Context, customerID string, cookieCart []models.CartItem, productID string, quantity int) ([]models.CartItem, error) {
	cart := s.Load(ctx, customerID, cookieCart)
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity = quantity
			break
		}
	}

	if err := s.save(ctx, customerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem removes the matching line if present; idempotent when absent.
func (s *CartService) RemoveItem(ctx context.Context, customerID string, cookieCart []models.CartItem, productID string) ([]models.CartItem, error) {
	cart := s.Load(ctx, customerID, cookieCart)
	kept := make([]models.CartItem, 0, len(cart))
	for _, item := range cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	if err := s.save(ctx, customerID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear deletes the cache copy of the cart. The controller drops the cookie.
func (s *CartService) Clear(ctx context.Context, customerID string) error {
	return s.cache.Delete(ctx, cartKey(customerID))
}

func (s *CartService) save(ctx context.Context, customerID string, cart []models.CartItem) error {
	return s.cache.SetWithTTL(ctx, cartKey(customerID), cart, s.cartTTL)
}
