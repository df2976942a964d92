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

// OpenDiscoveryHandler walks the multilayer graph two hops out from a known
// resource. 404 is reserved for resources that are not graph nodes; a node
// without edges responds 200 with an empty list.
func OpenDiscoveryHandler(c echo.Context) error {
	type openDiscoveryRequest struct {
		ResourceID      string  `json:"resource_id" validate:"required"`
		Limit           int     `json:"limit"`
		MinPlausibility float64 `json:"min_plausibility"`
		RefreshCache    bool    `json:"refresh_cache"`
	}

	type openDiscoveryResponse struct {
		Message    string                   `json:"message,omitempty"`
		Resource   string                   `json:"resource,omitempty"`
		Hypotheses []common.GraphHypothesis `json:"hypotheses"`
		Count      int                      `json:"count"`
	}

	data := new(openDiscoveryRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, openDiscoveryResponse{
			Message:    "Invalid request body",
			Hypotheses: []common.GraphHypothesis{},
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, openDiscoveryResponse{
			Message:    "Invalid request body",
			Hypotheses: []common.GraphHypothesis{},
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	hypotheses, err := app.Discovery.OpenDiscovery(ctx, data.ResourceID, data.Limit, data.MinPlausibility, data.RefreshCache)
	if errors.Is(err, discovery.ErrUnknownResource) {
		return c.JSON(http.StatusNotFound, openDiscoveryResponse{
			Message:    "Resource not found in graph",
			Hypotheses: []common.GraphHypothesis{},
		})
	}
	if err != nil {
		logger.Error("[Discovery] Open discovery failed", "err", err)
		return c.JSON(http.StatusInternalServerError, openDiscoveryResponse{
			Message:    "Internal server error",
			Hypotheses: []common.GraphHypothesis{},
		})
	}

	return c.JSON(http.StatusOK, openDiscoveryResponse{
		Resource:   data.ResourceID,
		Hypotheses: hypotheses,
		Count:      len(hypotheses),
	})
}
