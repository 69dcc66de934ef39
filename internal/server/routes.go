package server

import (
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/server/middleware"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	kg := e.Group("/api/kg", middleware.AuthMiddleware)
	view := middleware.Require(middleware.PermissionView)
	edit := middleware.Require(middleware.PermissionEdit)

	// Read routes
	kg.GET("/entities", routes.GetEntitiesHandler, view)
	kg.GET("/entities/search", routes.SearchEntitiesHandler, view)
	kg.GET("/entities/:id", routes.GetEntityHandler, view)
	kg.GET("/entities/:id/network", routes.GetEntityNetworkHandler, view)
	kg.GET("/relationships", routes.GetRelationshipsHandler, view)
	kg.GET("/statistics", routes.GetStatisticsHandler, view)
	kg.GET("/coverage-gaps", routes.GetCoverageGapsHandler, view)
	kg.GET("/types", routes.GetTypesHandler, view)

	// Administration routes
	kg.POST("/entities", routes.CreateEntityHandler, edit)
	kg.PUT("/entities/:id", routes.UpdateEntityHandler, edit)
	kg.DELETE("/entities/:id", routes.DeleteEntityHandler, edit)
	kg.POST("/documents/:id/extract", routes.ExtractDocumentHandler, edit)
}
