package auth

import (
	"crypto/subtle"
)

// TokenVerifier checks the shared webhook secret supplied on each request.
// Not a cryptographic boundary: a single secret distributed to the
// upstream platform at registration time.
type TokenVerifier struct {
	secret string
}

// NewTokenVerifier builds a verifier. An empty secret disables the check.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

// Verify reports whether the supplied token matches the configured secret.
func (v *TokenVerifier) Verify(token string) bool {
	if v.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.secret)) == 1
}
