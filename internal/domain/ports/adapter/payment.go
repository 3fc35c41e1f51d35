package adapter

import (
	"context"

	"hostbill-payments/internal/domain/model"
)

// PaymentGateway is the port every payment rail implements. Build turns a
// validated intent plus its freshly created order into the rail-specific
// parameters the client needs to complete payment. Adapters never accept an
// amount from anywhere except the intent/order they are handed.
type PaymentGateway interface {
	Name() model.Provider
	Build(ctx context.Context, intent *model.PaymentIntent, order *model.Order) (*model.ProviderResult, error)
}

// CheckoutSession is a hosted-checkout redirect handle.
type CheckoutSession struct {
	SessionID string
	URL       string
	Mock      bool
}

// CheckoutProvider creates hosted checkout sessions for subscription plans.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, userID string, plan model.Plan, amountCents int64) (*CheckoutSession, error)
}
