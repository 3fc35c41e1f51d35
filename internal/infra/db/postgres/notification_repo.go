package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
)

var _ repository.NotificationRepository = (*notificationRepo)(nil)

type notificationRepo struct{ pool *pgxpool.Pool }

func NewNotificationRepo(pool *pgxpool.Pool) *notificationRepo {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Append(ctx context.Context, qx repository.Tx, n *model.Notification) error {
	const q = `
INSERT INTO notifications (id, user_id, kind, title, message, created_at)
VALUES ($1,$2,$3,$4,$5,NOW());`

	_, err := execSQL(ctx, r.pool, qx, q, n.ID, n.UserID, n.Kind, n.Title, n.Message)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
