package domain

// AuthResult is returned by both registration and login: the freshly issued
// bearer token plus the identity it was issued for.
type AuthResult struct {
	Token    string
	Username string
	Role     string
	UserID   string
}
