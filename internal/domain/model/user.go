package model

import "time"

// User is the customer profile as far as this core is concerned: identity
// plus the plan entitlement mutated on the paid edge.
type User struct {
	ID           string // UUID, subject of the verified credential
	Email        string
	Plan         Plan
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller derived from a verified credential.
// It is the only trusted source of "who is making this request".
type Principal struct {
	UserID string
	Email  string
}
