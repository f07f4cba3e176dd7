package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/store"
	"github.com/kinotes/kinotes/pkg/cryptox"
	"github.com/kinotes/kinotes/pkg/httpx"
	"github.com/kinotes/kinotes/pkg/idx"
	"github.com/kinotes/kinotes/pkg/slogx"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")

	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// logins. Handlers must map it to one generic message so responses never
	// reveal which field was wrong.
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// AuthService coordinates registration and login on top of the credential
// store, the password hasher and the token service. It also implements
// httpx.Authenticator for the per-request gate.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService

	// dummyHash is verified against on unknown-username logins so the
	// argon2 cost is paid on both paths and response timing does not reveal
	// whether a username exists.
	dummyHash string
}

func NewAuthService(st store.Store, tokens *TokenService) (*AuthService, error) {
	dummy, err := cryptox.HashPassword("timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("auth: precomputing dummy hash: %w", err)
	}
	return &AuthService{
		Store:     st,
		Tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

// Register creates a unique credential and issues its first token. The
// existence checks are a fast path for friendly errors; the store's unique
// indexes are the authoritative guard, so a concurrent duplicate that slips
// past the checks still comes back as the matching taken error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.AuthResult, error) {
	users := s.Store.Users()

	taken, err := users.ExistsByUsername(ctx, username)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if taken {
		return domain.AuthResult{}, ErrUsernameTaken
	}

	taken, err = users.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if taken {
		return domain.AuthResult{}, ErrEmailTaken
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.AuthResult{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
	}

	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the check-then-insert race; figure out which field fired.
			if taken, exErr := users.ExistsByUsername(ctx, username); exErr == nil && taken {
				return domain.AuthResult{}, ErrUsernameTaken
			}
			return domain.AuthResult{}, ErrEmailTaken
		}
		return domain.AuthResult{}, err
	}

	token, err := s.Tokens.Generate(u)
	if err != nil {
		return domain.AuthResult{}, err
	}

	return domain.AuthResult{
		Token:    token,
		Username: u.Username,
		Role:     u.Role,
		UserID:   u.ID,
	}, nil
}

// Login verifies a credential and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.AuthResult, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a verification anyway so this path costs the same as a
			// wrong password against a real account.
			_ = cryptox.VerifyPassword(password, s.dummyHash)
			return domain.AuthResult{}, ErrInvalidCredentials
		}
		return domain.AuthResult{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Generate(u)
	if err != nil {
		return domain.AuthResult{}, err
	}

	return domain.AuthResult{
		Token:    token,
		Username: u.Username,
		Role:     u.Role,
		UserID:   u.ID,
	}, nil
}

// Authenticate implements httpx.Authenticator: it resolves a raw bearer
// token into a request principal. Roles are re-derived from the store here,
// not trusted from the token's own claims, so a role change takes effect on
// the next request rather than at the next token refresh.
func (s *AuthService) Authenticate(ctx context.Context, token string) (httpx.Principal, error) {
	subject, err := s.Tokens.ExtractSubject(token)
	if err != nil {
		return httpx.Principal{}, err
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("token subject has no stored credential", "subject", subject)
			return httpx.Principal{}, ErrTokenInvalid
		}
		return httpx.Principal{}, err
	}

	if !s.Tokens.Validate(token, u.Username) {
		return httpx.Principal{}, ErrTokenInvalid
	}

	return httpx.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    []string{domain.Authority(u.Role)},
	}, nil
}
