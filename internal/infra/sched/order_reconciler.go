package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
	"hostbill-payments/internal/infra/metrics"
)

// OrderReconciler periodically fails pending orders that outlived the
// provider's own redirect window. "Expired" is not a first-class status;
// a stale order simply fails through the same idempotent transition every
// other path uses, so a late legitimate callback still resolves as a
// harmless no-op.
type OrderReconciler struct {
	orders     repository.OrderRepository
	cache      repository.OrderStatusCache
	interval   time.Duration
	staleAfter time.Duration
	log        *zerolog.Logger
}

func NewOrderReconciler(orders repository.OrderRepository, cache repository.OrderStatusCache, interval, staleAfter time.Duration, logger *zerolog.Logger) *OrderReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	compLog := logger.With().Str("component", "OrderReconciler").Logger()
	return &OrderReconciler{
		orders:     orders,
		cache:      cache,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &compLog,
	}
}

func (w *OrderReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting order reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping order reconciler")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *OrderReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.orders.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale orders failed")
		return
	}
	for _, o := range stale {
		applied, err := w.orders.TransitionIfPending(ctx, repository.NoTX, o.ID, model.OrderStatusFailed, nil)
		if err != nil {
			w.log.Error().Err(err).Str("order_id", o.ID).Msg("fail stale order")
			continue
		}
		if applied {
			metrics.IncPayment(string(model.OrderStatusFailed))
			w.cache.SetStatus(ctx, o.UserID, o.ID, model.OrderStatusFailed)
			w.log.Info().Str("order_id", o.ID).Msg("stale pending order failed")
		}
	}
}
