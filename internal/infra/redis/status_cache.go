package redis

import (
	"context"
	"time"

	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
)

var _ repository.OrderStatusCache = (*StatusCache)(nil)

// StatusCache absorbs the polling check-status path. Only terminal statuses
// are cached: a terminal order never changes again, so a hit can skip the
// store entirely, while pending orders always go to the source of truth.
type StatusCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewStatusCache(client RedisClient, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

func (c *StatusCache) GetStatus(ctx context.Context, userID, orderID string) (model.OrderStatus, bool) {
	v, err := c.client.Get(ctx, key(userID, orderID))
	if err != nil || v == "" {
		return "", false
	}
	return model.OrderStatus(v), true
}

func (c *StatusCache) SetStatus(ctx context.Context, userID, orderID string, status model.OrderStatus) {
	if !status.Terminal() {
		return
	}
	// Cache errors are invisible to callers; the store remains authoritative.
	_ = c.client.Set(ctx, key(userID, orderID), string(status), c.ttl)
}

func key(userID, orderID string) string {
	return "order_status:" + userID + ":" + orderID
}
