package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrUnauthorized       = errors.New("missing or invalid credential")
	ErrForbidden          = errors.New("caller does not own this resource")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotConfigured      = errors.New("payment provider is not configured")
	ErrSignatureMismatch  = errors.New("callback signature mismatch")
	ErrAlreadySettled     = errors.New("order is already in a terminal state")
	ErrUnknownProvider    = errors.New("unknown payment provider")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction execution context")
)
