package service

import (
	"errors"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/pkg/jwtx"
)

// ErrTokenInvalid reports a token that failed structural or signature
// verification. The gate treats it as "no credential presented"; it is never
// surfaced to clients directly.
var ErrTokenInvalid = errors.New("invalid_token")

// TokenService mints and validates the service's bearer tokens. The signing
// key is process-wide and immutable for the process's lifetime; rotating it
// requires a restart and invalidates every outstanding token.
type TokenService struct {
	Signer *jwtx.HS256
	TTL    time.Duration
}

// Generate mints a token for the given user: subject is the username, role
// claims carry the user's authority at issuance. Two calls for the same user
// at different instants produce different tokens (iat differs).
func (s *TokenService) Generate(u domain.User) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	claims := jwtx.NewClaims(
		u.Username,
		[]string{domain.Authority(u.Role)},
		ttl,
		time.Now().UTC(),
	)
	return s.Signer.Sign(claims)
}

// ExtractSubject returns the username a token was issued for. Any parse or
// signature failure yields ErrTokenInvalid; an expired but authentic token
// still yields its subject (expiry is Validate's concern).
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// Validate reports whether token is an authentic, unexpired credential for
// expectedUsername. Expiry is not an error condition, just a false result.
func (s *TokenService) Validate(token, expectedUsername string) bool {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return false
	}
	if claims.Subject != expectedUsername {
		return false
	}
	return claims.ValidateExpiry() == nil
}
