package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-booking-waitlist/internal/config"     // middleware configuration (rate limit, cache)
	"github.com/iliyamo/event-booking-waitlist/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/event-booking-waitlist/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems hit this to verify the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the protected /me endpoint lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login,
	// refresh.  Each handler generates or exchanges tokens itself.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotation.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware: the handler accepts either
	// a bearer token (revoke all sessions) or a refresh_token in the body
	// (revoke one session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ATTENDEE", "ORGANIZER", "ADMIN"))
	auth.GET("/me", a.Me)

	// Alias so clients can call /v1/logout with a refresh token in the
	// body to terminate a session without a JWT.
	e.POST("/v1/logout", a.Logout)
}

// RegisterBooking wires the booking engine and event endpoints.  All of
// these routes require a valid access token.  Booking mutations carry a
// Redis token-bucket rate limit so a single user cannot hammer the
// serialized per-event section; event reads go through the Redis
// response cache since they are hot and change rarely.
func RegisterBooking(e *echo.Echo, bh *handler.BookingHandler, eh *handler.EventHandler, jwtSecret string, rdb *redis.Client) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole("ATTENDEE", "ORGANIZER", "ADMIN"))

	rate := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Event reads, available to every authenticated role.
	v1.GET("/events", eh.List, cache)
	v1.GET("/events/:id", eh.Get, cache)

	// Booking lifecycle for the calling user.
	v1.POST("/bookings", bh.Create, rate)
	v1.POST("/bookings/:id/cancel", bh.Cancel, rate)
	v1.GET("/bookings", bh.MyBookings)

	// Notifications produced by booking transitions.
	v1.GET("/notifications", bh.MyNotifications)
	v1.POST("/notifications/:id/read", bh.MarkNotificationRead)

	// Organizer-only management surface: event creation, dashboards,
	// audit logs and the manual promote override.
	org := e.Group("/v1")
	org.Use(middleware.JWTAuth(jwtSecret))
	org.Use(middleware.RequireRole("ORGANIZER", "ADMIN"))
	org.POST("/events", eh.Create)
	org.GET("/events/:id/dashboard", eh.Dashboard)
	org.GET("/events/:id/logs", eh.ListLogs)
	org.POST("/bookings/:id/promote", bh.Promote, rate)
}
