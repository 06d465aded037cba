package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-report-service/internal/api/http/handlers"
	"github.com/spec-kit/incident-report-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Report routes require a bearer token;
// the full listing, status transitions, and history are admin-only.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/report", cfg.Reports.CreateReport)
	protected.Get("/report/:userId", cfg.Reports.ListUserReports)
	protected.Patch("/report/:id", cfg.Reports.UpdateReport)
	protected.Delete("/report/:id", cfg.Reports.DeleteReport)

	admin := protected.Group("", auth.RequireAdmin())
	admin.Get("/reports", cfg.Reports.ListReports)
	admin.Put("/report/:id", cfg.Reports.UpdateStatus)
	admin.Get("/report/:id/history", cfg.Reports.StatusHistory)
}
