// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tripstore/internal/delivery/api/middleware"
	"tripstore/internal/delivery/api/router/handler"
	"tripstore/internal/domain/constants"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	HealthHandler    *handler.HealthHandler
	BackendHandler   *handler.BackendHandler
	MigrationHandler *handler.MigrationHandler
	PlaceHandler     *handler.PlaceHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	healthHandler    *handler.HealthHandler
	backendHandler   *handler.BackendHandler
	migrationHandler *handler.MigrationHandler
	placeHandler     *handler.PlaceHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		healthHandler:    params.HealthHandler,
		backendHandler:   params.BackendHandler,
		migrationHandler: params.MigrationHandler,
		placeHandler:     params.PlaceHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Check)

	// Read-only query routes served by whichever backend owns the group
	placesGroup := e.Group("/places")
	{
		placesGroup.GET("/nearby", r.placeHandler.Nearby)
		placesGroup.GET("/:id/reviews", r.placeHandler.Reviews)
	}

	// Operator routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)                        // First, check the token
	adminGroup.Use(r.authMiddleware.RequireRole(constants.RoleOperator)) // Then, check for the role
	{
		adminGroup.GET("/backends", r.backendHandler.List)
		adminGroup.GET("/backends/:group/features/:feature", r.backendHandler.Supports)

		adminGroup.GET("/migrations/capability", r.migrationHandler.Capability)
		adminGroup.POST("/migrations", r.migrationHandler.Migrate)
	}
}
