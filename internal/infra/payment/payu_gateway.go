package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
	"hostbill-payments/internal/schema"
)

var _ adapter.PaymentGateway = (*PayUGateway)(nil)

// PayUGateway builds the signed form-post parameter set for the PayU card
// rail and verifies its reverse-direction callback hashes.
type PayUGateway struct {
	cfg config.PayUConfig
}

func NewPayUGateway(cfg config.PayUConfig) *PayUGateway {
	return &PayUGateway{cfg: cfg}
}

func (g *PayUGateway) Name() model.Provider { return model.ProviderPayU }

// Build produces the redirect URL and signed parameters for order. The
// amount is formatted from the validated intent only; callback data never
// feeds back into it. Missing merchant credentials fail fast before any
// provider-side effect.
func (g *PayUGateway) Build(ctx context.Context, intent *model.PaymentIntent, order *model.Order) (*model.ProviderResult, error) {
	if !g.cfg.Configured() {
		return nil, domain.ErrNotConfigured
	}

	amount := fmt.Sprintf("%.2f", float64(intent.AmountRupees))
	surl := correlateURL(g.cfg.SuccessURL, order)
	furl := correlateURL(g.cfg.FailureURL, order)

	params := map[string]string{
		"key":         g.cfg.MerchantKey,
		"txnid":       order.TxnRef,
		"amount":      amount,
		"productinfo": intent.ProductInfo,
		"firstname":   intent.Firstname,
		"email":       intent.Email,
		"phone":       intent.Phone,
		"surl":        surl,
		"furl":        furl,
		"udf1":        order.ID,
		"udf2":        order.UserID,
	}
	params["hash"] = payuRequestHash(
		g.cfg.MerchantKey, order.TxnRef, amount, intent.ProductInfo, intent.Firstname, intent.Email, g.cfg.Salt,
	)

	return &model.ProviderResult{
		Provider:     model.ProviderPayU,
		PaymentURL:   g.cfg.BaseURL,
		SignedParams: params,
	}, nil
}

// VerifyCallback recomputes the response hash from the raw callback fields
// and compares it against the provider-supplied one.
func (g *PayUGateway) VerifyCallback(cb *schema.PayUCallback, status string) error {
	if !g.cfg.Configured() {
		return domain.ErrNotConfigured
	}
	expected := payuResponseHash(
		g.cfg.Salt, status, cb.Email, cb.Firstname, cb.ProductInfo, cb.Amount, cb.TxnID, g.cfg.MerchantKey,
	)
	if !payuHashMatches(expected, strings.ToLower(cb.Hash)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// correlateURL embeds the order and user ids as opaque correlation fields on
// the redirect target.
func correlateURL(base string, order *model.Order) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return base
	}
	q := u.Query()
	q.Set("orderId", order.ID)
	q.Set("uid", order.UserID)
	u.RawQuery = q.Encode()
	return u.String()
}
