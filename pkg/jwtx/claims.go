package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default lifetime for access tokens when the
// deployment does not configure one.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the access-token claims used across the service. The subject is
// the username; roles carry the user's granted authorities. Role claims are
// informational for API consumers only; authorization re-derives roles from
// the store on every request.
type Claims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject at issuance, e.g. ["ROLE_OWNER"].
	Roles []string `json:"roles,omitempty"`
}

// NewClaims builds minimally-correct claims for a bearer token.
func NewClaims(subject string, roles []string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
	}
}

// ValidateExpiry ensures the token hasn't expired. The cutoff is strict: a
// token is only valid while now is before exp.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()
	return c.validateExpiryAt(now)
}

func (c *Claims) validateExpiryAt(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
