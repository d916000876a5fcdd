// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-booking-api/internal/config"
	"github.com/iliyamo/room-booking-api/internal/handler"
	"github.com/iliyamo/room-booking-api/internal/middleware"
	"github.com/iliyamo/room-booking-api/internal/model"
)

// Deps collects everything route registration needs. The Redis client
// may be nil, in which case caching and rate limiting degrade to
// no-ops.
type Deps struct {
	Cfg      config.Config
	Auth     *handler.AuthHandler
	Rooms    *handler.RoomHandler
	Bookings *handler.BookingHandler
	Redis    *redis.Client
}

// Register mounts all application routes on the provided Echo
// instance.
//
//	GET    /healthz                  health probe, no auth
//	POST   /v1/auth/register         create customer account
//	POST   /v1/auth/login            obtain token pair
//	POST   /v1/auth/refresh          rotate refresh token
//	POST   /v1/auth/logout           revoke refresh token
//	GET    /v1/rooms                 browse rooms with filters, no auth
//	GET    /v1/me                    caller's claims
//	POST   /v1/bookings              create booking
//	GET    /v1/bookings              list visible bookings
//	DELETE /v1/bookings/:id          cancel by public id
//	POST   /v1/admin/rooms           create room (admin only)
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Distributed token-bucket rate limiting applies to everything
	// below; it is a no-op when Redis is unavailable.
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	e.Use(rl)

	// Unauthenticated session endpoints.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)

	// Room browsing is public so prospective guests can filter by
	// price, capacity and availability before registering. Responses
	// are cached briefly in Redis.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	e.GET("/v1/rooms", d.Rooms.List, cache)

	// Endpoints below require a valid access token.
	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	authed.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	authed.GET("/me", d.Auth.Me)
	authed.POST("/bookings", d.Bookings.Create)
	authed.GET("/bookings", d.Bookings.List)
	authed.DELETE("/bookings/:id", d.Bookings.Cancel)

	// Administrative endpoints.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/rooms", d.Rooms.AdminCreate)
}
