package server

import (
	"bibliograph/internal/server/middleware"
	"bibliograph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// ABC discovery over concept co-occurrence
	apiRoutes.POST("/graph/discover", routes.DiscoverHandler, middleware.RequirePermission("discovery.run"))

	// Graph-based discovery over the cached multilayer graph
	apiRoutes.POST("/graph/open-discovery", routes.OpenDiscoveryHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.POST("/graph/closed-discovery", routes.ClosedDiscoveryHandler, middleware.RequirePermission("graph.view"))

	// Validation feedback and graph maintenance
	apiRoutes.POST("/graph/validate", routes.ValidateHypothesisHandler, middleware.RequirePermission("graph.validate"))
	apiRoutes.POST("/graph/rebuild", routes.RebuildGraphHandler, middleware.RequirePermission("graph.rebuild"))

	// Report export
	apiRoutes.POST("/discoveries/export", routes.ExportDiscoveryHandler, middleware.RequirePermission("discovery.export"))
	apiRoutes.GET("/discoveries/:id", routes.GetReportHandler, middleware.RequirePermission("discovery.export"))
	apiRoutes.DELETE("/discoveries/:id", routes.DeleteReportHandler, middleware.RequirePermission("discovery.export"))
}
