package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snakewatch-io/api-service/internal/adapter/client"
	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/usecase"
)

// ClassifyHandler handles classification HTTP requests
type ClassifyHandler struct {
	classificationUC usecase.ClassificationUsecase
	// production hides diagnostic detail in error responses
	production bool
}

// NewClassifyHandler creates a new classify handler
func NewClassifyHandler(classificationUC usecase.ClassificationUsecase, production bool) *ClassifyHandler {
	return &ClassifyHandler{
		classificationUC: classificationUC,
		production:       production,
	}
}

// classifySuccessResponse is the wire shape consumed by the dashboard
type classifySuccessResponse struct {
	Success        bool                   `json:"success"`
	Classification *entity.Classification `json:"classification"`
}

// classifyErrorResponse is the wire shape for classification failures
type classifyErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Status  int         `json:"status,omitempty"`
}

// Classify handles POST /api/v1/classify.
// Caller-side faults (missing or unfetchable image) return 400; provider-side
// faults (missing credential, model failure, empty output) return 500. A
// parseable-but-malformed model reply never surfaces as an error.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var input usecase.ClassifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, classifyErrorResponse{
			Error:   "invalid_input",
			Message: "imageUrl is required",
		})
		return
	}

	result, err := h.classificationUC.Classify(c.Request.Context(), &input)
	if err != nil {
		h.respondClassifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, classifySuccessResponse{
		Success:        true,
		Classification: result,
	})
}

func (h *ClassifyHandler) respondClassifyError(c *gin.Context, err error) {
	var fetchErr *client.FetchError
	var modelErr *client.ModelError

	switch {
	case errors.Is(err, usecase.ErrMissingImageURL):
		c.JSON(http.StatusBadRequest, classifyErrorResponse{
			Error:   "invalid_input",
			Message: "imageUrl is required",
		})
	case errors.Is(err, client.ErrMissingAPIKey):
		c.JSON(http.StatusInternalServerError, classifyErrorResponse{
			Error:   "configuration_error",
			Message: "classification provider not configured",
		})
	case errors.As(err, &fetchErr):
		resp := classifyErrorResponse{
			Error:   "fetch_error",
			Message: "could not retrieve the image",
			Status:  fetchErr.StatusCode,
		}
		if !h.production {
			resp.Details = gin.H{"reason": fetchErr.Reason, "size": fetchErr.Size}
		}
		c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &modelErr):
		resp := classifyErrorResponse{
			Error:   "model_error",
			Message: "classification provider failed: " + modelErr.Reason,
			Status:  modelErr.StatusCode,
		}
		if !h.production {
			resp.Details = modelErr.Body
		}
		c.JSON(http.StatusInternalServerError, resp)
	case errors.Is(err, client.ErrEmptyModelOutput):
		c.JSON(http.StatusInternalServerError, classifyErrorResponse{
			Error:   "empty_model_output",
			Message: "classification provider returned no text",
		})
	default:
		resp := classifyErrorResponse{
			Error:   "internal_error",
			Message: "classification failed",
		}
		if !h.production {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
