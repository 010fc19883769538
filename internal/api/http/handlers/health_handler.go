package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-alert-bridge/internal/api/dto"
)

// HealthHandler responds to liveness probes.
type HealthHandler struct{}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports service liveness. No auth, no dependency checks: the
// bridge has no hard runtime dependencies to gate readiness on.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{OK: true})
}
