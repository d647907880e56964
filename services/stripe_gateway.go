package services

import (
	"context"
	"net/http"

	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/charge"
	"github.com/stripe/stripe-go/v80/customer"
)

type stripeGateway struct{}

// NewStripeGateway returns a Gateway backed by the Stripe charges API. The
// card token is attached to a freshly created customer, matching how the
// storefront submits payments.
func NewStripeGateway(secretKey string) Gateway {
	stripe.Key = secretKey
	return &stripeGateway{}
}

func (g *stripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	custParams := &stripe.CustomerParams{
		Name:  stripe.String(req.Name),
		Email: stripe.String(req.Email),
	}
	custParams.Context = ctx
	custParams.Source = stripe.String(req.Token)

	cust, err := customer.New(custParams)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	chargeParams := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Customer:    stripe.String(cust.ID),
		Description: stripe.String(req.Description),
	}
	chargeParams.Context = ctx

	ch, err := charge.New(chargeParams)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	return &ChargeResult{
		ID:     ch.ID,
		Status: string(ch.Status),
	}, nil
}

// wrapStripeError maps card declines and other Stripe-reported errors to a
// client-facing payment failure; anything else surfaces as an upstream error.
func wrapStripeError(err error) error {
	if stripeErr, ok := err.(*stripe.Error); ok {
		return apperrors.New(http.StatusBadRequest, "Payment failed", stripeErr)
	}
	return err
}
