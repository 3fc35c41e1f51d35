package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
	"hostbill-payments/internal/domain/ports/repository"
	"hostbill-payments/internal/infra/logging"
	"hostbill-payments/internal/infra/metrics"
	"hostbill-payments/internal/schema"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PayUVerifier is the reverse-signature check the PayU adapter exposes on
// top of the shared gateway port.
type PayUVerifier interface {
	VerifyCallback(cb *schema.PayUCallback, status string) error
}

// VerifyResult reports what a verify call did to the order.
type VerifyResult struct {
	Order *model.Order
	// Settled is true when the order is terminal after the call, whether
	// this call applied the transition or a previous delivery already had.
	Settled bool
	// Applied is true only for the call that actually moved the order.
	Applied bool
}

type PaymentUseCase interface {
	// Initiate creates a pending order for the intent and returns the
	// provider-specific parameters to complete payment. Nothing is persisted
	// when the target provider is not configured.
	Initiate(ctx context.Context, principal *model.Principal, intent *model.PaymentIntent) (*model.Order, *model.ProviderResult, error)
	// Verify applies the provider-reported outcome to the caller's order.
	Verify(ctx context.Context, principal *model.Principal, in *schema.VerifyInput) (*VerifyResult, error)
	// CheckStatus returns the current order status without mutating anything.
	CheckStatus(ctx context.Context, principal *model.Principal, orderID string) (*model.Order, error)
}

type paymentUC struct {
	orders      repository.OrderRepository
	statusCache repository.OrderStatusCache
	gateways    map[model.Provider]adapter.PaymentGateway
	payuVerify  PayUVerifier
	entitle     EntitlementUseCase
	tm          repository.TransactionManager
	log         *zerolog.Logger
}

func NewPaymentUseCase(
	orders repository.OrderRepository,
	statusCache repository.OrderStatusCache,
	gateways []adapter.PaymentGateway,
	payuVerify PayUVerifier,
	entitle EntitlementUseCase,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *paymentUC {
	byName := make(map[model.Provider]adapter.PaymentGateway, len(gateways))
	for _, g := range gateways {
		byName[g.Name()] = g
	}
	return &paymentUC{
		orders:      orders,
		statusCache: statusCache,
		gateways:    byName,
		payuVerify:  payuVerify,
		entitle:     entitle,
		tm:          tm,
		log:         logger,
	}
}

func (u *paymentUC) Initiate(ctx context.Context, principal *model.Principal, intent *model.PaymentIntent) (*model.Order, *model.ProviderResult, error) {
	gw, ok := u.gateways[intent.Provider]
	if !ok {
		return nil, nil, domain.ErrUnknownProvider
	}

	now := time.Now()
	order := &model.Order{
		ID:           uuid.NewString(),
		UserID:       principal.UserID,
		Plan:         intent.Plan,
		BillingCycle: intent.BillingCycle,
		AmountCents:  intent.AmountRupees * 100,
		Provider:     intent.Provider,
		TxnRef:       "TXN" + ulid.Make().String(),
		Status:       model.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Build before Create: an unconfigured provider must not leave an order
	// behind, and the self-generated txn ref already exists for signing.
	result, err := gw.Build(ctx, intent, order)
	if err != nil {
		return nil, nil, err
	}

	if err := u.orders.Create(ctx, repository.NoTX, order); err != nil {
		return nil, nil, err
	}
	// Providers that assign their own order reference replace ours.
	if result.ProviderOrderID != "" && result.ProviderOrderID != order.TxnRef {
		if err := u.orders.SetTxnRef(ctx, repository.NoTX, order.ID, result.ProviderOrderID); err != nil {
			return nil, nil, err
		}
		order.TxnRef = result.ProviderOrderID
	}

	metrics.IncOrderCreated(string(intent.Provider))
	ctx = logging.WithOrderID(ctx, order.ID)
	logging.With(ctx, u.log).Info().
		Str("provider", string(intent.Provider)).
		Int64("amount_cents", order.AmountCents).
		Msg("order initiated")
	return order, result, nil
}

func (u *paymentUC) Verify(ctx context.Context, principal *model.Principal, in *schema.VerifyInput) (*VerifyResult, error) {
	order, err := u.orders.FindByID(ctx, repository.NoTX, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	ctx = logging.WithOrderID(ctx, order.ID)

	// The card rail always signs its callbacks; a PayU order cannot settle
	// on a bare status.
	if order.Provider == model.ProviderPayU && in.PayU == nil {
		metrics.IncSignatureFailure()
		logging.With(ctx, u.log).Warn().Msg("signatureless callback for a signed rail")
		return nil, domain.ErrSignatureMismatch
	}
	if in.PayU != nil {
		// The supplied txnid must resolve to this very order before the
		// hash is even recomputed.
		byRef, err := u.orders.FindByTxnRef(ctx, repository.NoTX, in.PayU.TxnID)
		if err != nil || byRef.ID != order.ID {
			metrics.IncSignatureFailure()
			logging.With(ctx, u.log).Warn().Msg("callback txnid does not match the order")
			return nil, domain.ErrSignatureMismatch
		}
		if err := u.payuVerify.VerifyCallback(in.PayU, in.Status); err != nil {
			if err == domain.ErrSignatureMismatch {
				metrics.IncSignatureFailure()
				logging.With(ctx, u.log).Warn().Msg("callback signature mismatch")
			}
			return nil, err
		}
	}

	outcome, terminal := mapOutcome(in.Status)
	if !terminal {
		// Unknown/pending provider status: leave the order alone.
		return &VerifyResult{Order: order, Settled: order.Status.Terminal()}, nil
	}

	var applied bool
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var paidAt *time.Time
		if outcome == model.OrderStatusPaid {
			now := time.Now()
			paidAt = &now
		}
		ok, err := u.orders.TransitionIfPending(ctx, tx, order.ID, outcome, paidAt)
		if err != nil {
			return err
		}
		applied = ok
		if applied && outcome == model.OrderStatusPaid {
			// At-most-once: only the call that won the conditional update
			// reaches the side effects.
			return u.entitle.ApplyPaid(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		metrics.IncPayment(string(outcome))
		order.Status = outcome
		order.UpdatedAt = time.Now()
		if outcome == model.OrderStatusPaid {
			now := time.Now()
			order.PaidAt = &now
		}
	} else {
		// Duplicate delivery: report whatever the order settled to.
		if order, err = u.orders.FindByID(ctx, repository.NoTX, order.ID); err != nil {
			return nil, err
		}
	}
	u.statusCache.SetStatus(ctx, order.UserID, order.ID, order.Status)

	logging.With(ctx, u.log).Info().
		Str("status", string(order.Status)).
		Bool("applied", applied).
		Msg("order verified")
	return &VerifyResult{Order: order, Settled: order.Status.Terminal(), Applied: applied}, nil
}

func (u *paymentUC) CheckStatus(ctx context.Context, principal *model.Principal, orderID string) (*model.Order, error) {
	if status, ok := u.statusCache.GetStatus(ctx, principal.UserID, orderID); ok {
		return &model.Order{ID: orderID, UserID: principal.UserID, Status: status}, nil
	}

	order, err := u.orders.FindByID(ctx, repository.NoTX, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	u.statusCache.SetStatus(ctx, order.UserID, order.ID, order.Status)
	return order, nil
}

// mapOutcome maps a provider-reported status onto exactly one terminal
// order status; anything unrecognized keeps the order pending.
func mapOutcome(status string) (model.OrderStatus, bool) {
	switch status {
	case "success":
		return model.OrderStatusPaid, true
	case "failure", "failed":
		return model.OrderStatusFailed, true
	default:
		return model.OrderStatusPending, false
	}
}
