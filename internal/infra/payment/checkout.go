package payment

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
)

var _ adapter.CheckoutProvider = (*HostedCheckout)(nil)

// HostedCheckout creates redirect sessions for the hosted checkout page.
// When unconfigured it either fails fast or, strictly in development with
// the mock gate enabled, returns a success-redirect stand-in.
type HostedCheckout struct {
	cfg      config.CheckoutConfig
	mockMode bool
}

func NewHostedCheckout(cfg config.CheckoutConfig, mockMode bool) *HostedCheckout {
	return &HostedCheckout{cfg: cfg, mockMode: mockMode}
}

func (h *HostedCheckout) CreateSession(ctx context.Context, userID string, plan model.Plan, amountCents int64) (*adapter.CheckoutSession, error) {
	sessionID := "cs_" + ulid.Make().String()

	if !h.cfg.Configured() {
		if h.mockMode {
			return &adapter.CheckoutSession{
				SessionID: sessionID,
				URL:       fmt.Sprintf("/billing/success?session_id=%s&plan=%s&mock=1", sessionID, plan),
				Mock:      true,
			}, nil
		}
		return nil, domain.ErrNotConfigured
	}

	return &adapter.CheckoutSession{
		SessionID: sessionID,
		URL:       fmt.Sprintf("%s/%s", h.cfg.BaseURL, sessionID),
	}, nil
}
