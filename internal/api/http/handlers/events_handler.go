package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-alert-bridge/internal/api/dto"
	"github.com/spec-kit/ticket-alert-bridge/internal/service"
)

// EventsHandler serves the main webhook ingestion path.
type EventsHandler struct {
	service *service.BridgeService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(bridgeService *service.BridgeService) *EventsHandler {
	return &EventsHandler{service: bridgeService}
}

// Probe GET/HEAD /events. The platform validator probes the endpoint
// before accepting the registration; acknowledge without business logic.
func (h *EventsHandler) Probe(c *fiber.Ctx) error {
	return c.JSON(dto.ProbeResponse{OK: true, Probe: true})
}

// Receive POST /events. Always 200 for authenticated, parseable
// deliveries: duplicates, ignored events and failed dispatches are
// success-shaped so the upstream platform never retries into a storm.
func (h *EventsHandler) Receive(c *fiber.Ctx) error {
	outcome, err := h.service.HandleEvent(c.UserContext(), c.Body())
	if err != nil {
		return err
	}

	return c.JSON(dto.EventResponse{
		OK:           true,
		ServiceGroup: outcome.ServiceGroup,
		Dispatched:   outcome.Dispatched,
		TicketID:     outcome.TicketID,
		Reason:       outcome.Reason,
	})
}
