package jwtx

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	ErrKeyTooShort = errors.New("jwtx: HS256 key must be at least 32 bytes")
)

// HS256 signs and verifies tokens with a single process-wide symmetric key.
// There is no key identifier and no rotation support: rotating the secret
// means restarting the process and invalidates every outstanding token.
type HS256 struct {
	key []byte
}

// NewHS256 builds a signer/verifier from a base64-encoded secret. Both
// standard and raw (unpadded) encodings are accepted. The decoded key must
// provide at least 256 bits, matching the HMAC-SHA256 output size.
func NewHS256(base64Secret string) (*HS256, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		key, err = base64.RawStdEncoding.DecodeString(base64Secret)
		if err != nil {
			return nil, fmt.Errorf("jwtx: secret is not valid base64: %w", err)
		}
	}
	if len(key) < 32 {
		return nil, ErrKeyTooShort
	}
	return &HS256{key: key}, nil
}

// Alg returns the JWA algorithm name.
func (s *HS256) Alg() string { return "HS256" }

// Sign produces a compact JWS for the given claims.
func (s *HS256) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return signed, nil
}

// Verify checks structure and signature and returns the embedded claims.
// Expiry is NOT checked here: callers that care about token lifetime call
// Claims.ValidateExpiry separately. This split lets the subject of an expired
// but authentic token still be extracted.
func (s *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrAlgMismatch
			}
			return s.key, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, ErrAlgMismatch):
			return Claims{}, ErrAlgMismatch
		default:
			return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidSig
	}

	return claims, nil
}
