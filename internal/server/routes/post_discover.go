package routes

import (
	"errors"
	"net/http"
	"time"

	"bibliograph/internal/server/middleware"
	"bibliograph/pkg/common"
	"bibliograph/pkg/discovery"
	"bibliograph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// parseTimeSlice builds the optional time slice from ISO date strings. The
// end date is extended to the end of its day so the range stays inclusive.
func parseTimeSlice(startDate, endDate string) (*common.TimeSlice, error) {
	if startDate == "" && endDate == "" {
		return nil, nil
	}
	if startDate == "" || endDate == "" {
		return nil, errors.New("start_date and end_date must both be set")
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.New("end_date is before start_date")
	}
	return &common.TimeSlice{
		Start: start,
		End:   end.Add(24*time.Hour - time.Nanosecond),
	}, nil
}

// normalizeLimit applies the API default when a request omits the limit.
// A limit of zero means "not set" at the HTTP boundary; an explicit empty
// result list cannot be requested through the API.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

// DiscoverHandler runs ABC discovery between two concepts. No matching
// resources or no bridges is a valid outcome and responds 200 with an empty
// hypothesis list.
func DiscoverHandler(c echo.Context) error {
	type discoverRequest struct {
		ConceptA  string `query:"concept_a" validate:"required"`
		ConceptC  string `query:"concept_c" validate:"required"`
		Limit     int    `query:"limit"`
		StartDate string `query:"start_date"`
		EndDate   string `query:"end_date"`
	}

	type discoverResponse struct {
		Message         string              `json:"message,omitempty"`
		ConceptA        string              `json:"concept_a,omitempty"`
		ConceptC        string              `json:"concept_c,omitempty"`
		Hypotheses      []common.Hypothesis `json:"hypotheses"`
		Count           int                 `json:"count"`
		ExecutionTimeMs int64               `json:"execution_time_ms"`
		TimeSlice       *common.TimeSlice   `json:"time_slice,omitempty"`
	}

	data := new(discoverRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, discoverResponse{
			Message:    "Invalid request",
			Hypotheses: []common.Hypothesis{},
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, discoverResponse{
			Message:    "Invalid request",
			Hypotheses: []common.Hypothesis{},
		})
	}

	slice, err := parseTimeSlice(data.StartDate, data.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, discoverResponse{
			Message:    "Invalid time range: " + err.Error(),
			Hypotheses: []common.Hypothesis{},
		})
	}

	limit := normalizeLimit(data.Limit)

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	start := time.Now()
	hypotheses, err := app.Discovery.DiscoverHypotheses(ctx, data.ConceptA, data.ConceptC, slice, limit)
	if errors.Is(err, discovery.ErrEmptyConcept) {
		return c.JSON(http.StatusBadRequest, discoverResponse{
			Message:    "Concepts must not be empty",
			Hypotheses: []common.Hypothesis{},
		})
	}
	if err != nil {
		logger.Error("[Discovery] Discover failed", "err", err)
		return c.JSON(http.StatusInternalServerError, discoverResponse{
			Message:    "Internal server error",
			Hypotheses: []common.Hypothesis{},
		})
	}

	return c.JSON(http.StatusOK, discoverResponse{
		ConceptA:        discovery.NormalizeConcept(data.ConceptA),
		ConceptC:        discovery.NormalizeConcept(data.ConceptC),
		Hypotheses:      hypotheses,
		Count:           len(hypotheses),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		TimeSlice:       slice,
	})
}
