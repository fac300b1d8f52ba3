package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/deskops/helpdesk/internal/api/http/handlers"
	"github.com/deskops/helpdesk/internal/auth"
	"github.com/deskops/helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/sign-in", cfg.Session.SignIn)
	authGroup.Post("/sign-out", cfg.AuthMiddleware.Handle, cfg.Session.SignOut)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Session.Session)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)

	requireAdmin := auth.RequireAdmin()
	tickets.Patch("/:id", requireAdmin, cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/start", requireAdmin, cfg.Tickets.StartTicket)
	tickets.Post("/:id/finish", requireAdmin, cfg.Tickets.FinishTicket)
}
