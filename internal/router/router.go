// Package router wires handlers, auth and middleware onto the Echo
// instance.  Public browse endpoints carry no session; everything that
// writes the ledger sits behind JWT auth, and catalog mutation plus
// status overrides are ADMIN only.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/hafizalkariem/rental-ps-server/internal/config"
	"github.com/hafizalkariem/rental-ps-server/internal/handler"
	"github.com/hafizalkariem/rental-ps-server/internal/middleware"
	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Cfg          config.Config
	RateLimitCfg config.RateLimitConfig
	CacheCfg     config.CacheConfig
	Redis        *redis.Client

	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Booking      *handler.BookingHandler
	Availability *handler.AvailabilityHandler
	Catalog      *handler.CatalogHandler
	Event        *handler.EventHandler
}

// Register sets up the full route table.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health.Health)

	// auth endpoints; logout also lives in the protected group so a client
	// can revoke all sessions with just its access token
	authG := e.Group("/v1/auth")
	authG.POST("/register", d.Auth.Register)
	authG.POST("/login", d.Auth.Login)
	authG.POST("/refresh", d.Auth.Refresh)
	authG.POST("/logout", d.Auth.Logout)

	// public browse endpoints; catalog reads sit behind the Redis response
	// cache, availability manages its own per-date cache
	pub := e.Group("/v1")
	cached := pub.Group("")
	if d.Redis != nil && d.CacheCfg.Enabled {
		cached.Use(middleware.NewRedisCache(d.CacheCfg, d.Redis))
	}
	cached.GET("/consoles", d.Catalog.ListConsoles)
	cached.GET("/consoles/:id", d.Catalog.GetConsole)
	cached.GET("/stations", d.Catalog.ListStations)
	cached.GET("/stations/:id", d.Catalog.GetStation)
	cached.GET("/resources", d.Catalog.ListResources)
	cached.GET("/resources/:id", d.Catalog.GetResource)
	cached.GET("/events", d.Event.List)
	cached.GET("/events/:id", d.Event.Get)
	pub.GET("/availability", d.Availability.Grid)
	pub.GET("/availability/occupied", d.Availability.Occupied)

	// any authenticated session
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	auth.GET("/me", d.Auth.Me)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/bookings", d.Booking.List)
	auth.GET("/bookings/:id", d.Booking.Get)
	auth.POST("/bookings/:id/cancel", d.Booking.Cancel)

	// booking creation carries the token-bucket limiter so one client
	// cannot hammer the serialized overlap check
	create := auth.Group("")
	if d.Redis != nil {
		create.Use(middleware.NewTokenBucket(d.RateLimitCfg, d.Redis))
	}
	create.POST("/bookings", d.Booking.Create)

	// staff only
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.PATCH("/bookings/:id/status", d.Booking.UpdateStatus)
	admin.DELETE("/bookings/:id", d.Booking.Delete)

	admin.POST("/consoles", d.Catalog.CreateConsole)
	admin.PUT("/consoles/:id", d.Catalog.UpdateConsole)
	admin.DELETE("/consoles/:id", d.Catalog.DeleteConsole)
	admin.POST("/stations", d.Catalog.CreateStation)
	admin.PUT("/stations/:id", d.Catalog.UpdateStation)
	admin.DELETE("/stations/:id", d.Catalog.DeleteStation)
	admin.POST("/resources", d.Catalog.AssignResource)
	admin.PATCH("/resources/:id/active", d.Catalog.SetResourceActive)
	admin.DELETE("/resources/:id", d.Catalog.UnassignResource)

	admin.POST("/events", d.Event.Create)
	admin.PUT("/events/:id", d.Event.Update)
	admin.PATCH("/events/:id/status", d.Event.UpdateStatus)
	admin.DELETE("/events/:id", d.Event.Delete)
}
