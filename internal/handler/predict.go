package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rillyayidan/SmartHome-API/internal/model"
	"github.com/rillyayidan/SmartHome-API/internal/service"
)

// PredictHandler handles price estimation requests
type PredictHandler struct {
	predictionService *service.PredictionService
	descriptionParser *service.DescriptionParser
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictionService *service.PredictionService, descriptionParser *service.DescriptionParser) *PredictHandler {
	return &PredictHandler{
		predictionService: predictionService,
		descriptionParser: descriptionParser,
	}
}

// Predict handles POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req model.PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), &req)
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchPredict handles POST /api/v1/batch-predict
func (h *PredictHandler) BatchPredict(c *gin.Context) {
	var req model.BatchPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.predictionService.PredictBatch(c.Request.Context(), req.Properties)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrModelsNotLoaded):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Models not loaded"})
		case errors.Is(err, service.ErrBatchTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Batch prediction failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// Describe handles POST /api/v1/predict/describe
func (h *PredictHandler) Describe(c *gin.Context) {
	var req model.DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: description is empty"})
		return
	}

	// Fail fast before spending an AI call
	if !h.predictionService.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Models not loaded"})
		return
	}

	extracted, err := h.descriptionParser.Parse(c.Request.Context(), req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExtractionDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Description extraction is not configured"})
		case errors.Is(err, service.ErrNoLocation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed: " + err.Error()})
		}
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), extracted)
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.DescribeResponse{
		Provider:   h.descriptionParser.Provider(),
		Extracted:  extracted,
		Prediction: result,
	})
}

func respondPredictionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrModelsNotLoaded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Models not loaded"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Prediction error: " + err.Error()})
}
