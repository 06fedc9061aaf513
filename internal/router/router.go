package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rota-go-api/internal/config"
	"github.com/noah-isme/rota-go-api/internal/handler"
	"github.com/noah-isme/rota-go-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AccountHandler      *handler.AccountHandler
	EscalationHandler   *handler.EscalationHandler
	AuditHandler        *handler.AuditHandler
	DepartmentHandler   *handler.DepartmentHandler
	ShiftHandler        *handler.ShiftHandler
	TimeOffHandler      *handler.TimeOffHandler
	ReportHandler       *handler.ReportHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Sign-up stays outside the JWT gate.
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterPublic(api.Group("/accounts"))
	}

	// Admin surface: account management, escalations, audit trail, departments.
	admin := app.Group("/api/admin", jwtMiddleware, middleware.RequireRole("admin"),
		middleware.RateLimit("admin", 60, time.Minute))
	if deps.AccountHandler != nil {
		deps.AccountHandler.Register(admin.Group("/accounts"))
	}
	if deps.EscalationHandler != nil {
		deps.EscalationHandler.Register(admin.Group("/escalations"))
	}
	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(admin.Group("/audit"))
	}
	if deps.DepartmentHandler != nil {
		deps.DepartmentHandler.Register(admin.Group("/departments"))
	}

	// Schedule and leave management for all authenticated staff; the
	// handlers apply finer role gates per route.
	if deps.ShiftHandler != nil {
		deps.ShiftHandler.Register(app.Group("/api/v1/shifts", jwtMiddleware))
	}
	if deps.TimeOffHandler != nil {
		deps.TimeOffHandler.Register(app.Group("/api/v1/time-off", jwtMiddleware))
	}

	// Reports for managers and admins.
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(app.Group("/api/v1/reports", jwtMiddleware, middleware.RequireRole("admin", "manager")))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(app.Group("/api/v1/notifications", jwtMiddleware))
	}
}
