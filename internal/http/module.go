// Package http holds the HTTP server infrastructure and the Module
// interface each bounded context implements to register its routes.
package http

import (
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that registers its own HTTP routes,
// keeping the router decoupled from individual endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes. The RouterContext
	// provides the shared groups and middleware.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the shared dependencies modules need during
// route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected is the authenticated route group under /api/v1.
	Protected *gin.RouterGroup
	// Admin is the admin-only route group under /api/v1/admin.
	Admin *gin.RouterGroup
	// Config is the JWT configuration for auth middleware.
	Config config.JWTConfig
	// AuthMiddleware provides the authentication middleware.
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimiter is the stricter rate limiter for auth routes.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
