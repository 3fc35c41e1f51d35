package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // created; awaiting provider outcome
	OrderStatusPaid    OrderStatus = "paid"    // provider confirmed payment
	OrderStatusFailed  OrderStatus = "failed"  // provider reported failure or order went stale
)

// Terminal reports whether s admits no further transition.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed
}

// Order is the durable record of one purchase attempt. Orders are created
// pending, move to exactly one terminal state, and are never deleted.
type Order struct {
	ID           string // UUID
	UserID       string // owner; immutable after creation
	Plan         Plan
	BillingCycle BillingCycle
	AmountCents  int64 // paise; never floating point
	Provider     Provider
	TxnRef       string // provider/self-generated transaction ref, set after creation
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PaidAt       *time.Time // set when paid
}
