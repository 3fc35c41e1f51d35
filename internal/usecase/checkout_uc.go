package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// CreateSession creates a hosted checkout session for the caller. The
	// body userId is only ever compared against the principal, never used
	// in its place.
	CreateSession(ctx context.Context, principal *model.Principal, bodyUserID, planName string) (*adapter.CheckoutSession, error)
}

type checkoutUC struct {
	provider adapter.CheckoutProvider
	prices   map[string]config.PlanPrice
	log      *zerolog.Logger
}

func NewCheckoutUseCase(provider adapter.CheckoutProvider, prices map[string]config.PlanPrice, logger *zerolog.Logger) *checkoutUC {
	return &checkoutUC{provider: provider, prices: prices, log: logger}
}

func (u *checkoutUC) CreateSession(ctx context.Context, principal *model.Principal, bodyUserID, planName string) (*adapter.CheckoutSession, error) {
	if bodyUserID != "" && bodyUserID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	if !model.ValidPlan(planName) {
		return nil, domain.ErrInvalidArgument
	}

	price, ok := u.prices[planName]
	if !ok || price.Monthly <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	session, err := u.provider.CreateSession(ctx, principal.UserID, model.Plan(planName), price.Monthly*100)
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("user_id", principal.UserID).
		Str("plan", planName).
		Bool("mock", session.Mock).
		Msg("checkout session created")
	return session, nil
}
