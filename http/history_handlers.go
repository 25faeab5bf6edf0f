package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rainlens/station-viewer/daterange"
	"github.com/rainlens/station-viewer/history"
)

// validateRangeParams parses and validates the start/end query parameters.
// On failure the response has already been written and ok is false.
func (s *Server) validateRangeParams(c *gin.Context) (daterange.Range, bool) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end dates are required"})
		return daterange.Range{}, false
	}

	rng, err := s.validator.Validate(start, end, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return daterange.Range{}, false
	}
	return rng, true
}

// handleHistory returns the aligned channels for a validated date range.
// GET /api/v1/history?start=2025-01-01&end=2025-01-10
func (s *Server) handleHistory(c *gin.Context) {
	rng, ok := s.validateRangeParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	dataset, err := s.session.Refresh(ctx, rng)
	if err != nil {
		s.respondHistoryError(c, err)
		return
	}

	channels := make(gin.H, len(history.Metrics)+1)
	for _, m := range history.Metrics {
		channels[string(m)] = dataset.Channel(m)
	}
	channels[string(history.MetricSolarIrradiance)] = dataset.Channel(history.MetricSolarIrradiance)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"channels": channels,
			"images":   dataset.Images(),
		},
		"meta": gin.H{
			"start":    rng.StartDate(),
			"end":      rng.EndDate(),
			"same_day": rng.SameDay,
			"count":    dataset.Len(),
		},
	})
}

// handleHistoryExport streams a CSV file for a validated date range.
// GET /api/v1/history/export?start=2025-01-01&end=2025-01-10
func (s *Server) handleHistoryExport(c *gin.Context) {
	rng, ok := s.validateRangeParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	readings, err := s.store.Fetch(ctx, rng)
	if err != nil {
		s.log.Error("export fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": history.ErrFetch.Error()})
		return
	}

	doc, err := history.ExportCSV(history.Transform(readings), rng)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+history.ExportFilename(rng)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", doc)
}

// handleTimelapse returns the ordered image frames for a date range.
// GET /api/v1/timelapse?start=2025-01-01&end=2025-01-10
func (s *Server) handleTimelapse(c *gin.Context) {
	rng, ok := s.validateRangeParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	readings, err := s.store.Fetch(ctx, rng)
	if err != nil {
		s.log.Error("timelapse fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": history.ErrFetch.Error()})
		return
	}
	if len(readings) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": history.ErrNoData.Error()})
		return
	}

	frames := history.Transform(readings).Images()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"frames": frames},
		"meta": gin.H{
			"start": rng.StartDate(),
			"end":   rng.EndDate(),
			"count": len(frames),
		},
	})
}

func (s *Server) respondHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, history.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, history.ErrFetch):
		s.log.Error("history fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": history.ErrFetch.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
