package repository

import (
	"context"

	"hostbill-payments/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, qx Tx, id string) (*model.User, error)
	Save(ctx context.Context, qx Tx, u *model.User) error
	// UpdatePlan mutates only the plan entitlement field.
	UpdatePlan(ctx context.Context, qx Tx, userID string, plan model.Plan) error
}

// AuditLogRepository is append-only; reads live in the product's reporting
// stack, not in this core.
type AuditLogRepository interface {
	Append(ctx context.Context, qx Tx, rec *model.AuditRecord) error
}

type NotificationRepository interface {
	Append(ctx context.Context, qx Tx, n *model.Notification) error
}

// OrderStatusCache absorbs the polling check-status path; terminal statuses
// are safe to serve from cache since they never change again. Entries are
// keyed by owner as well as order so a cache hit already implies the
// ownership check passed when the entry was written.
type OrderStatusCache interface {
	GetStatus(ctx context.Context, userID, orderID string) (model.OrderStatus, bool)
	SetStatus(ctx context.Context, userID, orderID string, status model.OrderStatus)
}
