package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/BekmurodFoziloff/e-commerce/cache"
	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ChargeRequest is a single authorize-and-capture request against the
// payment gateway. Amount is in the smallest currency unit.
type ChargeRequest struct {
	Amount      int64
	Currency    string
	Token       string
	Name        string
	Email       string
	Description string
}

type ChargeResult struct {
	ID     string
	Status string
}

// Gateway authorizes and captures monetary charges with an external
// processor.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// CreatePaymentRequest carries the client-supplied payment details.
type CreatePaymentRequest struct {
	OrderID    string  `json:"orderId" binding:"required"`
	CustomerID string  `json:"customerId" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Token      string  `json:"token" binding:"required"`
}

// PaymentService charges the gateway and records the result in the
// append-only payment ledger. Ledger rows are created only after a successful
// charge and never mutated.
type PaymentService struct {
	payments repository.PaymentRepository
	gateway  Gateway
	cache    cache.Store
}

func NewPaymentService(payments repository.PaymentRepository, gateway Gateway, cacheStore cache.Store) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gateway,
		cache:    cacheStore,
	}
}

func paymentKey(chargeID string) string {
	return "payment:" + chargeID
}

func paymentListKey(customerID string) string {
	return "payments:user:" + customerID
}

func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid order id %s", req.OrderID)
	}
	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid customer id %s", req.CustomerID)
	}

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		Amount:      int64(math.Round(req.Amount * 100)),
		Currency:    "usd",
		Token:       req.Token,
		Name:        req.Name,
		Email:       req.Email,
		Description: fmt.Sprintf("Payment for order %s", req.OrderID),
	})
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Order:         orderID,
		Customer:      customerID,
		Amount:        req.Amount,
		PaymentStatus: result.Status,
		PaymentID:     result.ID,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, paymentKey(result.ID), payment); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, paymentListKey(req.CustomerID)); err != nil {
		return nil, err
	}
	return payment, nil
}

// FindPaymentByID returns the ledger row for a gateway charge identifier,
// read-through cached under payment:<chargeID>.
func (s *PaymentService) FindPaymentByID(ctx context.Context, chargeID string) (*models.Payment, error) {
	var cached models.Payment
	found, err := s.cache.Get(ctx, paymentKey(chargeID), &cached)
	if err != nil {
		zap.L().Warn("Failed to read payment from cache", zap.Error(err), zap.String("payment_id", chargeID))
	} else if found {
		return &cached, nil
	}

	payment, err := s.payments.FindByChargeID(ctx, chargeID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, apperrors.NotFound("Payment with id %s not found", chargeID)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, paymentKey(chargeID), payment); err != nil {
		zap.L().Warn("Failed to cache payment", zap.Error(err), zap.String("payment_id", chargeID))
	}
	return payment, nil
}

// FindAllPayments lists the customer's payments. The collection cache is
// skipped whenever a page parameter is present.
func (s *PaymentService) FindAllPayments(ctx context.Context, customer primitive.ObjectID, page int) ([]models.Payment, error) {
	listKey := paymentListKey(customer.Hex())

	if page == 0 {
		var cached []models.Payment
		found, err := s.cache.Get(ctx, listKey, &cached)
		if err != nil {
			zap.L().Warn("Failed to read payments from cache", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	payments, err := s.payments.FindAllByCustomer(ctx, customer, page)
	if err != nil {
		return nil, err
	}

	if page == 0 {
		if err := s.cache.Set(ctx, listKey, payments); err != nil {
			zap.L().Warn("Failed to cache payments", zap.Error(err))
		}
	}
	return payments, nil
}
