package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snakewatch-io/api-service/internal/usecase"
)

// IncidentHandler handles incident-related HTTP requests
type IncidentHandler struct {
	incidentUC usecase.IncidentUsecase
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(incidentUC usecase.IncidentUsecase) *IncidentHandler {
	return &IncidentHandler{incidentUC: incidentUC}
}

// CreateIncident handles POST /api/v1/incidents
func (h *IncidentHandler) CreateIncident(c *gin.Context) {
	var input usecase.CreateIncidentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	incident, err := h.incidentUC.Create(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, incident)
}

// GetIncident handles GET /api/v1/incidents/:id
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "incident id")
		return
	}

	incident, err := h.incidentUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, incident)
}

// ListIncidents handles GET /api/v1/incidents
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	pagination := ParsePagination(c)

	output, err := h.incidentUC.List(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// UpdateIncidentStatus handles PATCH /api/v1/incidents/:id
func (h *IncidentHandler) UpdateIncidentStatus(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "incident id")
		return
	}

	var input usecase.UpdateIncidentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	incident, err := h.incidentUC.UpdateStatus(c.Request.Context(), id, &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, incident)
}

// CompleteStep handles POST /api/v1/incidents/:id/steps/:stepId/complete
func (h *IncidentHandler) CompleteStep(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "incident id")
		return
	}

	stepID, err := ExtractUUIDParam(c, "stepId")
	if err != nil {
		HandleInvalidUUID(c, "step id")
		return
	}

	step, err := h.incidentUC.CompleteStep(c.Request.Context(), id, stepID)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, step)
}
