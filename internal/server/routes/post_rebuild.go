package routes

import (
	"fmt"
	"net/http"

	"bibliograph/internal/queue"
	"bibliograph/internal/server/middleware"
	"bibliograph/internal/util"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RebuildGraphHandler queues a multilayer graph rebuild.
func RebuildGraphHandler(c echo.Context) error {
	type rebuildResponse struct {
		Message string `json:"message"`
	}

	user := c.(*middleware.AppContext).User
	msg := queue.RebuildMessage{
		RequestedBy: fmt.Sprintf("%d", user.UserID),
		Reason:      "manual",
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.RebuildQueue, []byte(util.ConvertStructToJson(msg))); err != nil {
		logger.Error("Failed to publish to rebuild_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, rebuildResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, rebuildResponse{
		Message: "Graph rebuild queued",
	})
}
