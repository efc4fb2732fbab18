package domain

import "time"

// Identity is the authenticated caller as reported by the token verifier.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// TokenIssuer issues bearer tokens (JWT) for an identity.
type TokenIssuer interface {
	Issue(identity Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}
