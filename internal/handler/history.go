package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rillyayidan/SmartHome-API/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// PredictionHistory reads back logged predictions
type PredictionHistory interface {
	RecentPredictions(ctx context.Context, limit int) ([]model.PredictionLogEntry, error)
}

// HistoryHandler serves the prediction log
type HistoryHandler struct {
	history PredictionHistory
}

// NewHistoryHandler creates a new history handler. A nil history means the
// prediction log is disabled.
func NewHistoryHandler(history PredictionHistory) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// Recent handles GET /api/v1/predictions/recent
func (h *HistoryHandler) Recent(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Prediction log is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.history.RecentPredictions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch predictions: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(entries),
		"predictions": entries,
	})
}
