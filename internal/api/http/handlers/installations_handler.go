package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-alert-bridge/internal/api/dto"
)

// InstallationsHandler acknowledges installation validation calls from the
// upstream platform. No business logic.
type InstallationsHandler struct{}

// NewInstallationsHandler constructs handler.
func NewInstallationsHandler() *InstallationsHandler {
	return &InstallationsHandler{}
}

// Ack GET/HEAD/POST /installations.
func (h *InstallationsHandler) Ack(c *fiber.Ctx) error {
	return c.JSON(dto.ProbeResponse{OK: true, Probe: true})
}
