package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ticket-alert-bridge/pkg/util"
)

// TokenMiddleware rejects requests without the shared secret before any
// body parsing happens.
type TokenMiddleware struct {
	verifier *TokenVerifier
}

// NewTokenMiddleware constructs middleware.
func NewTokenMiddleware(verifier *TokenVerifier) *TokenMiddleware {
	return &TokenMiddleware{verifier: verifier}
}

// Handle enforces the token query parameter on guarded routes.
func (m *TokenMiddleware) Handle(c *fiber.Ctx) error {
	if !m.verifier.Verify(c.Query("token")) {
		return apperrors.NewUnauthorized("invalid token")
	}
	return c.Next()
}
