package routes

import (
	"fmt"
	"net/http"

	"bibliograph/internal/server/middleware"
	"bibliograph/internal/storage"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetReportHandler returns a presigned download link for an exported
// discovery report. Deployments without a public object-storage endpoint
// cannot presign; the report body is served inline instead.
func GetReportHandler(c echo.Context) error {
	type reportParams struct {
		ReportID string `param:"id" validate:"required"`
	}

	type reportResponse struct {
		Message string `json:"message,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	params := new(reportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, reportResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, reportResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3
	key := fmt.Sprintf("reports/%s.json", params.ReportID)

	url, err := storage.GenerateDownloadLink(ctx, s3Client, key)
	if err != nil {
		logger.Warn("Failed to presign report link, serving inline", "report_id", params.ReportID, "err", err)
		data, getErr := storage.GetReport(ctx, s3Client, key)
		if getErr != nil {
			logger.Error("Failed to fetch report", "report_id", params.ReportID, "err", getErr)
			return c.JSON(http.StatusNotFound, reportResponse{
				Message: "Report not found",
			})
		}
		return c.Blob(http.StatusOK, "application/json", data)
	}

	return c.JSON(http.StatusOK, reportResponse{
		URL: url,
	})
}
