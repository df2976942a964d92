package routes

import (
	"net/http"

	"bibliograph/internal/queue"
	"bibliograph/internal/server/middleware"
	"bibliograph/internal/util"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ExportDiscoveryHandler queues an offline discovery run whose report lands
// in object storage. Responds with the report ID for later download.
func ExportDiscoveryHandler(c echo.Context) error {
	type exportRequest struct {
		ConceptA  string `json:"concept_a" validate:"required"`
		ConceptC  string `json:"concept_c" validate:"required"`
		Limit     int    `json:"limit"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}

	type exportResponse struct {
		Message  string `json:"message"`
		ReportID string `json:"report_id,omitempty"`
	}

	data := new(exportRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request body",
		})
	}

	slice, err := parseTimeSlice(data.StartDate, data.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid time range: " + err.Error(),
		})
	}

	reportID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.ExportMessage{
		ReportID:  reportID,
		ConceptA:  data.ConceptA,
		ConceptC:  data.ConceptC,
		Limit:     normalizeLimit(data.Limit),
		TimeSlice: slice,
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.ExportQueue, []byte(util.ConvertStructToJson(msg))); err != nil {
		logger.Error("Failed to publish to export_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, exportResponse{
		Message:  "Export queued",
		ReportID: reportID,
	})
}
