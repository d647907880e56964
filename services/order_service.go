package services

import (
	"context"
	"errors"

	"github.com/BekmurodFoziloff/e-commerce/cache"
	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"github.com/BekmurodFoziloff/e-commerce/sender"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderService drives the cart-to-order conversion: pricing, persistence,
// cache invalidation and notification dispatch. The durable store is the
// authority; the cache is written through on every mutation so read-through
// hits never return stale data.
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	carts    *CartService
	cache    cache.Store
	mail     sender.EmailSender
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	carts *CartService,
	cacheStore cache.Store,
	mail sender.EmailSender,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		users:    users,
		carts:    carts,
		cache:    cacheStore,
		mail:     mail,
	}
}

func orderKey(id string) string {
	return "order:" + id
}

func orderListKey(customerID string) string {
	return "orders:user:" + customerID
}

// CreateOrder converts the customer's current cart into a pending order.
// Prices are snapshotted at creation time; later catalog changes do not
// affect the order. On success the cart is cleared from both the cache and
// (by the controller) the cookie, and a confirmation email is dispatched
// best-effort.
func (s *OrderService) CreateOrder(ctx context.Context, customer *models.User, cookieCart []models.CartItem) (*models.Order, error) {
	cart := s.carts.Load(ctx, customer.ID.Hex(), cookieCart)
	if len(cart) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	var subTotalPrice float64
	lines := make([]models.OrderProduct, 0, len(cart))
	emailLines := make([]orderEmailLine, 0, len(cart))
	for _, item := range cart {
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, apperrors.NotFound("Product with id %s not found", item.ProductID)
		}
		product, err := s.products.FindByID(ctx, oid)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, apperrors.NotFound("Product with id %s not found", item.ProductID)
			}
			return nil, err
		}
		subTotalPrice += product.Price * float64(item.Quantity)
		lines = append(lines, models.OrderProduct{Product: product.ID, Quantity: item.Quantity})
		emailLines = append(emailLines, orderEmailLine{Name: product.Name, Quantity: item.Quantity})
	}

	order := &models.Order{
		Customer:      customer.ID,
		Products:      lines,
		SubTotalPrice: subTotalPrice,
		Status:        models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, orderKey(order.ID.Hex()), order); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, customer.ID.Hex()); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, orderListKey(customer.ID.Hex())); err != nil {
		return nil, err
	}

	// Fire-and-forget: the order is already durable, a failed email must not
	// fail the request.
	subject, body := orderCreatedEmail(customer, order, emailLines)
	if _, err := s.mail.SendEmail(ctx, customer.Email, subject, body); err != nil {
		zap.L().Warn("Failed to send order confirmation email",
			zap.Error(err), zap.String("order_id", order.ID.Hex()))
	}

	return order, nil
}

// FindOrderByID returns the order, read-through cached under order:<id>.
func (s *OrderService) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Order with id %s not found", id)
	}

	var cached models.Order
	found, err := s.cache.Get(ctx, orderKey(id), &cached)
	if err != nil {
		zap.L().Warn("Failed to read order from cache", zap.Error(err), zap.String("order_id", id))
	} else if found {
		return &cached, nil
	}

	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFound("Order with id %s not found", id)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, orderKey(id), order); err != nil {
		zap.L().Warn("Failed to cache order", zap.Error(err), zap.String("order_id", id))
	}
	return order, nil
}

// FindAllOrders lists the customer's orders. The collection cache is only
// used for unfiltered reads; paging or filter parameters always go to the
// durable store so page-1 data is never returned for a page-3 request.
func (s *OrderService) FindAllOrders(ctx context.Context, customer primitive.ObjectID, filter repository.OrderFilter) ([]models.Order, error) {
	filter.Customer = customer
	listKey := orderListKey(customer.Hex())

	if !filter.HasQuery() {
		var cached []models.Order
		found, err := s.cache.Get(ctx, listKey, &cached)
		if err != nil {
			zap.L().Warn("Failed to read orders from cache", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if !filter.HasQuery() {
		if err := s.cache.Set(ctx, listKey, orders); err != nil {
			zap.L().Warn("Failed to cache orders", zap.Error(err))
		}
	}
	return orders, nil
}

// UpdateOrderItems replaces the order's line items and recomputes the
// subtotal from current catalog prices. Unlike creation, this re-prices on
// every update.
func (s *OrderService) UpdateOrderItems(ctx context.Context, id string, items []models.OrderProduct) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Order with id %s not found", id)
	}

	var subTotalPrice float64
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, apperrors.NotFound("Product with id %s not found", item.Product.Hex())
			}
			return nil, err
		}
		subTotalPrice += product.Price * float64(item.Quantity)
	}

	order, err := s.orders.UpdateProducts(ctx, oid, items, subTotalPrice)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFound("Order with id %s not found", id)
		}
		return nil, err
	}

	if err := s.writeThrough(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus sets the order status and dispatches a status-change
// notification. Statuses are validated against the known set but transitions
// are free-form; regressions are allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.BadRequest("Invalid order status %s", status)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Order with id %s not found", id)
	}

	order, err := s.orders.UpdateStatus(ctx, oid, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFound("Order with id %s not found", id)
		}
		return nil, err
	}

	if err := s.writeThrough(ctx, order); err != nil {
		return nil, err
	}

	s.notifyStatusUpdated(ctx, order)
	return order, nil
}

// DeleteOrder removes the order and invalidates its cache entries, returning
// the deleted snapshot.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Order with id %s not found", id)
	}

	order, err := s.orders.Delete(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFound("Order with id %s not found", id)
		}
		return nil, err
	}

	if err := s.cache.Delete(ctx, orderKey(id), orderListKey(order.Customer.Hex())); err != nil {
		return nil, err
	}
	return order, nil
}

// writeThrough overwrites the order's cache entry with the new snapshot and
// drops the customer's collection cache.
func (s *OrderService) writeThrough(ctx context.Context, order *models.Order) error {
	if err := s.cache.Set(ctx, orderKey(order.ID.Hex()), order); err != nil {
		return err
	}
	return s.cache.Delete(ctx, orderListKey(order.Customer.Hex()))
}

func (s *OrderService) notifyStatusUpdated(ctx context.Context, order *models.Order) {
	customer, err := s.users.FindByID(ctx, order.Customer)
	if err != nil {
		zap.L().Warn("Failed to resolve customer for status email",
			zap.Error(err), zap.String("order_id", order.ID.Hex()))
		return
	}

	subject, body := orderStatusEmail(order)
	if _, err := s.mail.SendEmail(ctx, customer.Email, subject, body); err != nil {
		zap.L().Warn("Failed to send order status email",
			zap.Error(err), zap.String("order_id", order.ID.Hex()))
	}
}
