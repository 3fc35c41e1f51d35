package adapter

import "hostbill-payments/internal/domain/model"

// TokenVerifier resolves a raw Authorization header value to the Principal
// it was issued for. It must fail with domain.ErrUnauthorized for a missing
// header, a non-bearer scheme, a bad signature, an expired token, or a token
// with no subject claim, and must have no side effects.
type TokenVerifier interface {
	VerifyBearer(header string) (*model.Principal, error)
}
