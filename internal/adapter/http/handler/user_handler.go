package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snakewatch-io/api-service/internal/usecase"
)

// UserHandler handles admin user HTTP requests
type UserHandler struct {
	userUC usecase.UserUsecase
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUC usecase.UserUsecase) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// ListUsers handles GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	pagination := ParsePagination(c)

	output, err := h.userUC.List(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
