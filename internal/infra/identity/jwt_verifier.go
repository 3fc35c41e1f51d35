package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
)

var _ adapter.TokenVerifier = (*JWTVerifier)(nil)

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier resolves Authorization headers to principals using an HS256
// shared secret. The token subject is the user id; no other request field is
// ever trusted for identity.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *JWTVerifier) VerifyBearer(header string) (*model.Principal, error) {
	if header == "" {
		return nil, domain.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, domain.ErrUnauthorized
	}
	return v.parse(strings.TrimSpace(parts[1]))
}

func (v *JWTVerifier) parse(tok string) (*model.Principal, error) {
	claims := &sessionClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return &model.Principal{UserID: claims.Subject, Email: claims.Email}, nil
}
