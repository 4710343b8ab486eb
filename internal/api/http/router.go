package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Identity       *handlers.IdentityHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)
	authGroup.Post("/logout", cfg.Accounts.Logout)
	authGroup.Post("/refresh", cfg.Accounts.Refresh)

	identityGroup := app.Group("/identity", cfg.AuthMiddleware.Handle)
	identityGroup.Get("/me", cfg.Identity.Me)
	identityGroup.Get("/users/:id", auth.RequireRole(), cfg.Identity.GetUser)
}
