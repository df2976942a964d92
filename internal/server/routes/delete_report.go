package routes

import (
	"fmt"
	"net/http"

	"bibliograph/internal/server/middleware"
	"bibliograph/internal/storage"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteReportHandler removes an exported discovery report from object
// storage.
func DeleteReportHandler(c echo.Context) error {
	type reportParams struct {
		ReportID string `param:"id" validate:"required"`
	}

	type deleteResponse struct {
		Message string `json:"message"`
	}

	params := new(reportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3
	key := fmt.Sprintf("reports/%s.json", params.ReportID)

	if err := storage.DeleteReport(ctx, s3Client, key); err != nil {
		logger.Error("Failed to delete report", "report_id", params.ReportID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteResponse{
		Message: "Report deleted",
	})
}
