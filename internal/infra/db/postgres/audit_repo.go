package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
)

var _ repository.AuditLogRepository = (*auditLogRepo)(nil)

type auditLogRepo struct{ pool *pgxpool.Pool }

func NewAuditLogRepo(pool *pgxpool.Pool) *auditLogRepo {
	return &auditLogRepo{pool: pool}
}

func (r *auditLogRepo) Append(ctx context.Context, qx repository.Tx, rec *model.AuditRecord) error {
	const q = `
INSERT INTO audit_log (id, user_id, action, details, created_at)
VALUES ($1,$2,$3,$4,NOW());`

	// details is serialized as JSONB by pgx.
	_, err := execSQL(ctx, r.pool, qx, q, rec.ID, rec.UserID, rec.Action, rec.Details)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

