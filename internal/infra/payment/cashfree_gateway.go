package payment

import (
	"context"
	"fmt"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*CashfreeGateway)(nil)

// CashfreeGateway is the alternate hosted gateway. The contract here is
// deliberately minimal: a provider order reference plus a redirect URL.
type CashfreeGateway struct {
	cfg config.CashfreeConfig
}

func NewCashfreeGateway(cfg config.CashfreeConfig) *CashfreeGateway {
	return &CashfreeGateway{cfg: cfg}
}

func (g *CashfreeGateway) Name() model.Provider { return model.ProviderCashfree }

func (g *CashfreeGateway) Build(ctx context.Context, intent *model.PaymentIntent, order *model.Order) (*model.ProviderResult, error) {
	if !g.cfg.Configured() {
		return nil, domain.ErrNotConfigured
	}

	providerOrderID := "cf_" + order.TxnRef
	redirect := g.cfg.RedirectURL
	if redirect == "" {
		redirect = "https://payments.cashfree.com/order"
	}
	return &model.ProviderResult{
		Provider:        model.ProviderCashfree,
		ProviderOrderID: providerOrderID,
		PaymentURL:      fmt.Sprintf("%s/%s?order_token=%s", redirect, providerOrderID, order.TxnRef),
	}, nil
}
