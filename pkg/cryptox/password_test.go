package cryptox

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

// hashWithParams builds a PHC string with explicit costs, for testing that
// verification honours embedded parameters.
func hashWithParams(password string, salt []byte, t, m uint32, p uint8) (string, error) {
	digest := argon2.IDKey([]byte(password), salt, t, m, p, keyLength)
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		m, t, p,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.Contains(t, parts[3], "t=", "should contain iterations parameter")
			require.Contains(t, parts[3], "p=", "should contain parallelism parameter")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)

	hash2, err := HashPassword(password)
	require.NoError(t, err)

	// Each hash should be different due to unique salts
	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)

	t.Run("accepts matching password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("Secret123", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("secret123", hash), ErrPasswordMismatch)
		require.ErrorIs(t, VerifyPassword("", hash), ErrPasswordMismatch)
	})

	t.Run("rejects other password's hash", func(t *testing.T) {
		otherHash, err := HashPassword("different")
		require.NoError(t, err)
		require.ErrorIs(t, VerifyPassword("Secret123", otherHash), ErrPasswordMismatch)
	})
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not PHC", "plainhash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=10,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=65536,t=10,p=1$c2FsdA$aGFzaA"},
		{"bad parameters", "$argon2id$v=19$nope$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=10,p=1$!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=65536,t=10,p=1$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("whatever", tt.encoded)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

// Verification must use the parameters embedded in the encoded hash, not the
// package constants, so hashes survive future cost changes.
func TestVerifyPassword_EmbeddedParameters(t *testing.T) {
	// Hash produced with lighter costs than the current constants.
	light := "$argon2id$v=19$m=8,t=1,p=1$"
	salt := []byte("0123456789abcdef")
	// Recompute expected digest inline to build a valid foreign-parameter hash.
	encoded, err := hashWithParams("pw", salt, 1, 8, 1)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, light))

	require.NoError(t, VerifyPassword("pw", encoded))
	require.ErrorIs(t, VerifyPassword("other", encoded), ErrPasswordMismatch)
}
