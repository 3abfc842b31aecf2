package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/http/handlers"
	"github.com/spec-kit/booking-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Bookings       *handlers.BookingsHandler
	Rooms          *handlers.RoomsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/me", cfg.Auth.Me)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	rooms := api.Group("/rooms")
	rooms.Get("", cfg.Rooms.List)
	rooms.Get("/:id", cfg.Rooms.Get)
	rooms.Post("", auth.RequireAdmin(), cfg.Rooms.Create)
	rooms.Put("/:id", auth.RequireAdmin(), cfg.Rooms.Update)
	rooms.Delete("/:id", auth.RequireAdmin(), cfg.Rooms.Delete)

	bookings := api.Group("/bookings")
	bookings.Post("", cfg.Bookings.Create)
	bookings.Get("", cfg.Bookings.List)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Patch("/:id", auth.RequireManagerTier(), cfg.Bookings.Transition)
	bookings.Post("/:id/cancel", cfg.Bookings.Cancel)
	bookings.Delete("/:id", cfg.Bookings.Delete)

	api.Get("/approvals", auth.RequireManagerTier(), cfg.Bookings.PendingApprovals)

	users := api.Group("/users")
	users.Get("", auth.RequireAdmin(), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", auth.RequireAdmin(), cfg.Users.Delete)
}
