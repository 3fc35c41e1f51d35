package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, user_id, plan, billing_cycle, amount_cents, provider, txn_ref, status, created_at, updated_at, paid_at`

func (r *orderRepo) Create(ctx context.Context, qx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (id, user_id, plan, billing_cycle, amount_cents, provider, txn_ref, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	_, err := execSQL(ctx, r.pool, qx, q,
		o.ID, o.UserID, o.Plan, o.BillingCycle, o.AmountCents, o.Provider, o.TxnRef, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) SetTxnRef(ctx context.Context, qx repository.Tx, orderID, ref string) error {
	const q = `UPDATE orders SET txn_ref=$2, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, qx, q, orderID, ref)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TransitionIfPending closes the duplicate-callback race with a single
// conditional update: only a pending row can move, and only one concurrent
// caller observes applied=true.
func (r *orderRepo) TransitionIfPending(
	ctx context.Context, qx repository.Tx, orderID string, outcome model.OrderStatus, paidAt *time.Time,
) (bool, error) {
	if !outcome.Terminal() {
		return false, domain.ErrInvalidArgument
	}
	const q = `
UPDATE orders
   SET status = $2,
       paid_at = COALESCE($3, paid_at),
       updated_at = NOW()
 WHERE id = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, qx, q, orderID, string(outcome), paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) FindByID(ctx context.Context, qx repository.Tx, orderID string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if _, ok := qx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, qx, q, orderID)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) FindByTxnRef(ctx context.Context, qx repository.Tx, ref string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE txn_ref=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, qx, q, ref)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) ListPendingOlderThan(ctx context.Context, qx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, qx, q, olderThan, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o := new(model.Order)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Plan, &o.BillingCycle, &o.AmountCents, &o.Provider, &o.TxnRef, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, o)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	if err := row.Scan(&o.ID, &o.UserID, &o.Plan, &o.BillingCycle, &o.AmountCents, &o.Provider, &o.TxnRef, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}
