package routes

import (
	"net/http"

	"bibliograph/internal/queue"
	"bibliograph/internal/server/middleware"
	"bibliograph/internal/util"
	"bibliograph/pkg/common"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ValidateHypothesisHandler accepts a validated graph hypothesis and queues
// reinforcement of the edges along its supporting path.
func ValidateHypothesisHandler(c echo.Context) error {
	type validateRequest struct {
		ResourceA string        `json:"resource_a" validate:"required"`
		ResourceC string        `json:"resource_c" validate:"required"`
		Edges     []common.Edge `json:"edges" validate:"required,min=1"`
	}

	type validateResponse struct {
		Message      string `json:"message"`
		ValidationID string `json:"validation_id,omitempty"`
	}

	data := new(validateRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, validateResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, validateResponse{
			Message: "Invalid request body",
		})
	}

	validationID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, validateResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.ReinforceMessage{
		ValidationID: validationID,
		ResourceA:    util.SanitizePostgresText(data.ResourceA),
		ResourceC:    util.SanitizePostgresText(data.ResourceC),
		Edges:        data.Edges,
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.ReinforceQueue, []byte(util.ConvertStructToJson(msg))); err != nil {
		logger.Error("Failed to publish to reinforce_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, validateResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishTopic(ch, "discovery.validated", []byte(util.ConvertStructToJson(msg))); err != nil {
		logger.Error("Failed to publish validation event", "err", err)
	}

	return c.JSON(http.StatusAccepted, validateResponse{
		Message:      "Validation queued",
		ValidationID: validationID,
	})
}
