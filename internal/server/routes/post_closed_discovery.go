package routes

import (
	"errors"
	"net/http"

	"bibliograph/internal/server/middleware"
	"bibliograph/pkg/common"
	"bibliograph/pkg/discovery"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ClosedDiscoveryHandler finds paths between two known resources. Paths are
// returned best-first: shorter paths win, then higher plausibility.
func ClosedDiscoveryHandler(c echo.Context) error {
	type closedDiscoveryRequest struct {
		ResourceA    string `json:"resource_a" validate:"required"`
		ResourceC    string `json:"resource_c" validate:"required"`
		MaxHops      int    `json:"max_hops"`
		RefreshCache bool   `json:"refresh_cache"`
	}

	type closedDiscoveryResponse struct {
		Message   string        `json:"message,omitempty"`
		ResourceA string        `json:"resource_a,omitempty"`
		ResourceC string        `json:"resource_c,omitempty"`
		Paths     []common.Path `json:"paths"`
		Count     int           `json:"count"`
	}

	data := new(closedDiscoveryRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, closedDiscoveryResponse{
			Message: "Invalid request body",
			Paths:   []common.Path{},
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, closedDiscoveryResponse{
			Message: "Invalid request body",
			Paths:   []common.Path{},
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	paths, err := app.Discovery.ClosedDiscovery(ctx, data.ResourceA, data.ResourceC, data.MaxHops, data.RefreshCache)
	if errors.Is(err, discovery.ErrUnknownResource) {
		return c.JSON(http.StatusNotFound, closedDiscoveryResponse{
			Message: "Resource not found in graph",
			Paths:   []common.Path{},
		})
	}
	if err != nil {
		logger.Error("[Discovery] Closed discovery failed", "err", err)
		return c.JSON(http.StatusInternalServerError, closedDiscoveryResponse{
			Message: "Internal server error",
			Paths:   []common.Path{},
		})
	}

	return c.JSON(http.StatusOK, closedDiscoveryResponse{
		ResourceA: data.ResourceA,
		ResourceC: data.ResourceC,
		Paths:     paths,
		Count:     len(paths),
	})
}
