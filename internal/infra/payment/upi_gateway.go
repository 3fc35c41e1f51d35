package payment

import (
	"context"
	"fmt"
	"net/url"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*UPIGateway)(nil)

// UPIGateway constructs collect-request deep links. There is no signature on
// this rail; the same URI doubles as the scannable QR payload. The gpay
// variant emits an additional app-scheme deep link with identical params.
type UPIGateway struct {
	cfg      config.UPIConfig
	provider model.Provider // upi or gpay
}

func NewUPIGateway(cfg config.UPIConfig) *UPIGateway {
	return &UPIGateway{cfg: cfg, provider: model.ProviderUPI}
}

func NewGPayGateway(cfg config.UPIConfig) *UPIGateway {
	return &UPIGateway{cfg: cfg, provider: model.ProviderGPay}
}

func (g *UPIGateway) Name() model.Provider { return g.provider }

func (g *UPIGateway) Build(ctx context.Context, intent *model.PaymentIntent, order *model.Order) (*model.ProviderResult, error) {
	if !g.cfg.Configured() {
		return nil, domain.ErrNotConfigured
	}

	query := fmt.Sprintf("pa=%s&pn=%s&am=%d&cu=INR&tn=%s&tr=%s",
		url.QueryEscape(g.cfg.PayeeVPA),
		url.QueryEscape(g.cfg.MerchantName),
		intent.AmountRupees,
		url.QueryEscape(intent.ProductInfo),
		url.QueryEscape(order.TxnRef),
	)
	upiURI := "upi://pay?" + query

	res := &model.ProviderResult{
		Provider:  g.provider,
		UPIURI:    upiURI,
		QRPayload: upiURI,
	}
	if g.provider == model.ProviderGPay {
		res.GPayDeepLink = "gpay://upi/pay?" + query
	}
	return res, nil
}
