package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
	"hostbill-payments/internal/infra/metrics"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase applies the side effects of a paid order: the plan
// entitlement update, one audit record and one user-facing notification.
// Callers invoke it only on the pending->paid edge; idempotency is enforced
// upstream by the order store's conditional transition, not re-checked here.
type EntitlementUseCase interface {
	ApplyPaid(ctx context.Context, tx repository.Tx, order *model.Order) error
}

type entitlementUC struct {
	users         repository.UserRepository
	audit         repository.AuditLogRepository
	notifications repository.NotificationRepository
	log           *zerolog.Logger
}

func NewEntitlementUseCase(
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	notifications repository.NotificationRepository,
	logger *zerolog.Logger,
) *entitlementUC {
	return &entitlementUC{users: users, audit: audit, notifications: notifications, log: logger}
}

func (u *entitlementUC) ApplyPaid(ctx context.Context, tx repository.Tx, order *model.Order) error {
	if err := u.users.UpdatePlan(ctx, tx, order.UserID, order.Plan); err != nil {
		return err
	}

	if err := u.audit.Append(ctx, tx, &model.AuditRecord{
		ID:     uuid.NewString(),
		UserID: order.UserID,
		Action: "plan_upgraded",
		Details: map[string]any{
			"order_id":     order.ID,
			"provider":     string(order.Provider),
			"plan":         string(order.Plan),
			"amount_cents": order.AmountCents,
		},
	}); err != nil {
		return err
	}

	if err := u.notifications.Append(ctx, tx, &model.Notification{
		ID:      uuid.NewString(),
		UserID:  order.UserID,
		Kind:    "payment",
		Title:   "Payment received",
		Message: fmt.Sprintf("Your %s plan is now active. Order %s.", order.Plan, order.ID),
	}); err != nil {
		return err
	}

	metrics.AddPaymentRevenue("INR", order.AmountCents)
	u.log.Info().
		Str("user_id", order.UserID).
		Str("order_id", order.ID).
		Str("plan", string(order.Plan)).
		Msg("plan entitlement applied")
	return nil
}
