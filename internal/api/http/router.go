package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-alert-bridge/internal/api/http/handlers"
	"github.com/spec-kit/ticket-alert-bridge/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Events        *handlers.EventsHandler
	Installations *handlers.InstallationsHandler
	Token         *auth.TokenMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Check)

	// Get also registers HEAD, which the platform validator uses to probe.
	events := app.Group("/events", cfg.Token.Handle)
	events.Get("", cfg.Events.Probe)
	events.Post("", cfg.Events.Receive)

	installations := app.Group("/installations", cfg.Token.Handle)
	installations.Get("", cfg.Installations.Ack)
	installations.Post("", cfg.Installations.Ack)
}
