package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ticket-purchase-service/internal/config"
	"github.com/iliyamo/ticket-purchase-service/internal/handler"
	"github.com/iliyamo/ticket-purchase-service/internal/middleware"
)

// RegisterPublic registers routes that need no authentication: the health
// check and the ticket catalog, which is served through the Redis cache.
func RegisterPublic(e *echo.Echo, cache config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/catalog", handler.Catalog, middleware.NewRedisCache(cache, rdb))
}

// RegisterAuth registers account registration and login under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterPurchases registers the authenticated purchase endpoints.  The
// rate limiter runs after JWTAuth so buckets can be keyed by account.
func RegisterPurchases(e *echo.Echo, p *handler.PurchaseHandler, jwtSecret string, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/purchases", p.Purchase, middleware.NewTokenBucket(rl, rdb))
	g.GET("/payments", p.ListPayments)
}
