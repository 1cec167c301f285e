package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rillyayidan/SmartHome-API/internal/model"
	"github.com/rillyayidan/SmartHome-API/internal/service"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// MetadataHandler serves service and model metadata
type MetadataHandler struct {
	predictionService *service.PredictionService
	build             BuildInfo
	now               func() time.Time
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(predictionService *service.PredictionService, build BuildInfo) *MetadataHandler {
	return &MetadataHandler{
		predictionService: predictionService,
		build:             build,
		now:               time.Now,
	}
}

// Root handles GET /
func (h *MetadataHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SmartHome Price Predictor API",
		"version": h.build.Version,
		"status":  "active",
		"endpoints": gin.H{
			"predict":           "/api/v1/predict",
			"batch_predict":     "/api/v1/batch-predict",
			"describe":          "/api/v1/predict/describe",
			"model_info":        "/api/v1/model-info",
			"zones":             "/api/v1/zones",
			"recent_prediction": "/api/v1/predictions/recent",
			"health":            "/health",
			"version":           "/version",
		},
	})
}

// Health handles GET /health
func (h *MetadataHandler) Health(c *gin.Context) {
	resp := model.HealthResponse{
		Status:       "healthy",
		Message:      "API is running",
		Timestamp:    h.now().Format(time.RFC3339),
		ModelsLoaded: h.predictionService.Ready(),
		Version:      h.build.Version,
	}
	if !resp.ModelsLoaded {
		resp.Status = "unhealthy"
		resp.Message = "Models not loaded"
	}

	c.JSON(http.StatusOK, resp)
}

// Version handles GET /version
func (h *MetadataHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}

// ModelInfo handles GET /api/v1/model-info
func (h *MetadataHandler) ModelInfo(c *gin.Context) {
	info, err := h.predictionService.ModelInfo()
	if err != nil {
		if errors.Is(err, service.ErrModelsNotLoaded) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Models not loaded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Zones handles GET /api/v1/zones
func (h *MetadataHandler) Zones(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictionService.Zones())
}

// NotFound answers unknown routes
func (h *MetadataHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Endpoint not found",
		"message": "See GET / for the list of endpoints",
	})
}
