package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "monedero/internal/errors"
	"monedero/internal/models"
	"monedero/internal/services"
)

// UserHandler handles user-related requests.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents the request payload for creating a user
type CreateUserRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateUser handles the creation of a new user
// @Summary     Create a user
// @Description Create a new user with a display name
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} models.User "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /usuarios [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// SetReferenceRequest represents the request payload for storing a user's
// classification reference.
type SetReferenceRequest struct {
	UserID    uint                           `json:"user_id" binding:"required"`
	Reference models.ClassificationReference `json:"reference" binding:"required"`
}

// SetReference stores the aligned/regret exemplar lists for a user
// @Summary     Set classification reference
// @Description Store the per-user aligned/regret charge-name lists used to auto-classify new expenses
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body SetReferenceRequest true "Reference lists"
// @Success     200 {object} MessageResponse "Reference stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /gastos/referencia [post]
func (h *UserHandler) SetReference(c *gin.Context) {
	var req SetReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.SetReference(req.UserID, req.Reference); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "✅ Referencia de gastos registrada correctamente."})
}
