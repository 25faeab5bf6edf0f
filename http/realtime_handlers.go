package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rainlens/station-viewer/history"
	"github.com/rainlens/station-viewer/preview"
)

// handleNow returns the most recent stored reading.
// GET /api/v1/now
func (s *Server) handleNow(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reading, err := s.store.LatestReading(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if reading == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": history.ErrNoDataset.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reading,
		"meta": gin.H{
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handlePreview verifies a timelapse image is loadable before the client
// shows it. This is the server-side half of preload-before-display.
// GET /api/v1/preview?src=https://...
func (s *Server) handlePreview(c *gin.Context) {
	src := c.Query("src")
	if src == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "src is required"})
		return
	}

	sel := <-s.selector.Select(c.Request.Context(), history.ChannelPoint{ImageRef: src})
	if sel.Outcome == preview.Failed {
		s.log.Warn("image preload failed", "src", src, "error", sel.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": preview.ErrLoadFailed.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"image": sel.ImageRef,
			"state": sel.Outcome.String(),
		},
	})
}
