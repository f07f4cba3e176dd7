package service_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/service"
	"github.com/kinotes/kinotes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T, ttl time.Duration) *service.TokenService {
	t.Helper()

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	signer, err := jwtx.NewHS256(secret)
	require.NoError(t, err)
	return &service.TokenService{Signer: signer, TTL: ttl}
}

func TestTokenService(t *testing.T) {
	svc := newTokenService(t, time.Hour)
	user := domain.User{ID: "u1", Username: "alice", Role: domain.DefaultRole}

	t.Run("generate and validate", func(t *testing.T) {
		tok, err := svc.Generate(user)
		require.NoError(t, err)

		subject, err := svc.ExtractSubject(tok)
		require.NoError(t, err)
		require.Equal(t, "alice", subject)

		require.True(t, svc.Validate(tok, "alice"))
		require.False(t, svc.Validate(tok, "bob"))
	})

	t.Run("role authority is embedded", func(t *testing.T) {
		tok, err := svc.Generate(user)
		require.NoError(t, err)

		claims, err := svc.Signer.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, []string{"ROLE_OWNER"}, claims.Roles)
	})

	t.Run("tampered token", func(t *testing.T) {
		tok, err := svc.Generate(user)
		require.NoError(t, err)

		tampered := tok[:len(tok)-4] + "AAAA"
		_, err = svc.ExtractSubject(tampered)
		require.ErrorIs(t, err, service.ErrTokenInvalid)
		require.False(t, svc.Validate(tampered, "alice"))
	})

	t.Run("expired token keeps its subject but fails Validate", func(t *testing.T) {
		stale, err := svc.Signer.Sign(jwtx.NewClaims("alice", nil, time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		subject, err := svc.ExtractSubject(stale)
		require.NoError(t, err)
		require.Equal(t, "alice", subject)

		require.False(t, svc.Validate(stale, "alice"))
	})

	t.Run("zero ttl falls back to the default", func(t *testing.T) {
		tok, err := newTokenService(t, 0).Generate(user)
		require.NoError(t, err)

		claims, err := svc.Signer.Verify(tok)
		require.NoError(t, err)
		ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
		require.Equal(t, jwtx.DefaultTokenTTL, ttl)
	})
}
