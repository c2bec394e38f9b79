package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "monedero/internal/errors"
	"monedero/internal/services"
)

// GoalHandler handles goal-related requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalFromPromptRequest represents the free-text goal creation payload
type CreateGoalFromPromptRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
}

// CreateGoalFromPrompt handles goal creation from a free-text request
// @Summary     Create a goal from a prompt
// @Description Ask the model to derive all goal fields from a free-text request and insert the result
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       request body CreateGoalFromPromptRequest true "Free-text goal request"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Oracle unreachable or reply undecodable"
// @Router      /metas [post]
func (h *GoalHandler) CreateGoalFromPrompt(c *gin.Context) {
	var req CreateGoalFromPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoalFromPrompt(c.Request.Context(), req.UserID, req.Prompt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "✅ Meta creada correctamente.",
		"meta":    newGoalResponse(goal),
	})
}

// CreateGoalRequest represents the structured goal creation payload
type CreateGoalRequest struct {
	UserID      uint     `json:"user_id" binding:"required"`
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=500"`
	GoalAmount  *float64 `json:"goal_amount" binding:"required,gt=0"`
	Tipo        string   `json:"tipo" binding:"max=50"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
}

// CreateGoal handles goal creation from explicit fields
// @Summary     Create a goal
// @Description Create a goal directly from structured fields, without oracle involvement
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /metas/nueva [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(req.UserID, req.Name, req.Description, *req.GoalAmount, req.Tipo, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "✅ Meta creada correctamente.",
		"meta":    newGoalResponse(goal),
	})
}

// GetUserGoals handles listing one user's goals
// @Summary     List a user's goals
// @Description Get every goal for one user, most recently started first
// @Tags        goals
// @Produce     json
// @Param       user_id path int true "User ID"
// @Success     200 {object} map[string][]GoalResponse "User goals"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Router      /metas/{user_id} [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		responses = append(responses, newGoalResponse(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"metas": responses})
}

// GetProgress handles the current-goal progress report
// @Summary     Get current goal progress
// @Description Measure the user's all-time spend against the current goal and attach the model's narrative feedback. Reports a plain message when the user has no goals or no expenses.
// @Tags        goals
// @Produce     json
// @Param       user_id path int true "User ID"
// @Success     200 {object} map[string]interface{} "Goal, numerical progress, and feedback"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     502 {object} ErrorResponse "Oracle unreachable"
// @Router      /metas/{user_id}/progreso [get]
func (h *GoalHandler) GetProgress(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.goalService.Progress(c.Request.Context(), userID)
	if err != nil {
		// Having no goal or no expenses yet is a normal state for a new
		// account, reported as a message rather than an error.
		if errors.Is(err, apperrors.ErrNoCurrentGoal) {
			c.JSON(http.StatusOK, gin.H{"message": "No hay metas registradas para este usuario."})
			return
		}
		if errors.Is(err, apperrors.ErrNoExpenses) {
			c.JSON(http.StatusOK, gin.H{"message": "No hay gastos registrados para este usuario."})
			return
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta":               newGoalResponse(progress.Goal),
		"numerical_progress": newNumericalProgress(progress),
		"feedback":           progress.Feedback,
	})
}
