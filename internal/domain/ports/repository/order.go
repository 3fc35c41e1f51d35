package repository

import (
	"context"
	"time"

	"hostbill-payments/internal/domain/model"
)

type OrderRepository interface {
	// Create persists a fresh order; the order is always pending.
	Create(ctx context.Context, qx Tx, o *model.Order) error
	// SetTxnRef attaches the provider/self-generated transaction ref. Some
	// providers need the ref to exist before a signature can be computed,
	// which forces this two-step write.
	SetTxnRef(ctx context.Context, qx Tx, orderID, ref string) error
	// TransitionIfPending applies pending -> outcome as a single conditional
	// update. applied is false when the order was already terminal; that is
	// the idempotent no-op path, not an error.
	TransitionIfPending(ctx context.Context, qx Tx, orderID string, outcome model.OrderStatus, paidAt *time.Time) (applied bool, err error)
	FindByID(ctx context.Context, qx Tx, orderID string) (*model.Order, error)
	FindByTxnRef(ctx context.Context, qx Tx, ref string) (*model.Order, error)
	// ListPendingOlderThan feeds the stale-order reconciler.
	ListPendingOlderThan(ctx context.Context, qx Tx, olderThan time.Time, limit int) ([]*model.Order, error)
}
