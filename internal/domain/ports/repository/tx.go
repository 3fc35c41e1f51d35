package repository

import "context"

// Tx is an opaque transaction handle passed through use cases via `qx`.
// Its concrete type is infra-defined (pgx.Tx for Postgres); repositories
// must gracefully accept nil for the non-transactional path.
type Tx interface{}

// NoTX marks the non-transactional path explicitly at call sites.
var NoTX Tx

// TransactionManager executes fn within one database transaction, passing
// the underlying handle via tx. A returned error rolls the transaction back.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
