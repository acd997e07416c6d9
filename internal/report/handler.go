package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// sinceParam parses the optional ?since=RFC3339 filter; reports default to
// the last 24 hours.
func sinceParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("since")
	if raw == "" {
		return time.Now().Add(-24 * time.Hour), true
	}

	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "since must be RFC3339"}})
		return time.Time{}, false
	}
	return since, true
}

func (h *Handler) TeamsLoad(c *gin.Context) {
	since, ok := sinceParam(c)
	if !ok {
		return
	}

	load, err := h.service.TeamsLoad(c.Request.Context(), since)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, load)
}

func (h *Handler) CallsStatistics(c *gin.Context) {
	since, ok := sinceParam(c)
	if !ok {
		return
	}

	stats, err := h.service.CallsStatistics(c.Request.Context(), since)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) CallsReport(c *gin.Context) {
	since, ok := sinceParam(c)
	if !ok {
		return
	}

	rows, err := h.service.CallsReport(c.Request.Context(), since)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
