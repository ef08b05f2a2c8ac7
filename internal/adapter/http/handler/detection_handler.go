package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snakewatch-io/api-service/internal/usecase"
)

// DetectionHandler handles detection-related HTTP requests
type DetectionHandler struct {
	detectionUC      usecase.DetectionUsecase
	classificationUC usecase.ClassificationUsecase
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(detectionUC usecase.DetectionUsecase, classificationUC usecase.ClassificationUsecase) *DetectionHandler {
	return &DetectionHandler{
		detectionUC:      detectionUC,
		classificationUC: classificationUC,
	}
}

// CreateDetection handles POST /api/v1/detections
func (h *DetectionHandler) CreateDetection(c *gin.Context) {
	var input usecase.CreateDetectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	detection, err := h.detectionUC.Create(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, detection)
}

// GetDetection handles GET /api/v1/detections/:id
func (h *DetectionHandler) GetDetection(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "detection id")
		return
	}

	detection, err := h.detectionUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, detection)
}

// ListDetections handles GET /api/v1/detections
func (h *DetectionHandler) ListDetections(c *gin.Context) {
	pagination := ParsePagination(c)
	riskLevel := c.Query("risk_level")

	output, err := h.detectionUC.List(c.Request.Context(), riskLevel, pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// DeleteDetection handles DELETE /api/v1/detections/:id
func (h *DetectionHandler) DeleteDetection(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "detection id")
		return
	}

	if err := h.detectionUC.Delete(c.Request.Context(), id); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// ProcessDetection handles POST /api/v1/detections/:id/process.
// It runs the classifier on the detection's stored image and persists the
// result. The sensor pipeline calls this after syncing an offline detection.
func (h *DetectionHandler) ProcessDetection(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "detection id")
		return
	}

	detection, err := h.classificationUC.ClassifyDetection(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, detection)
}

// GetStats handles GET /api/v1/detections/stats
func (h *DetectionHandler) GetStats(c *gin.Context) {
	stats, err := h.detectionUC.Stats(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, stats)
}
