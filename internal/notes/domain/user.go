package domain

import (
	"strings"
	"time"
)

// DefaultRole is assigned to every self-registered user.
const DefaultRole = "owner"

// User is a registered account. Username and email are globally unique;
// uniqueness is enforced by the store's indexes, with service-level existence
// checks serving only as the friendly fast path.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id encoded
	Role         string
	CreatedAt    time.Time
}

// Authority maps a stored role name to the authority string carried by
// principals and token claims, e.g. "owner" -> "ROLE_OWNER".
func Authority(role string) string {
	return "ROLE_" + strings.ToUpper(role)
}
