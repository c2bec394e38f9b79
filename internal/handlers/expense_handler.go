package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "monedero/internal/errors"
	"monedero/internal/models"
	"monedero/internal/pagination"
	"monedero/internal/services"
)

// reviewQueueLimit caps the unclassified review queue returned to clients.
const reviewQueueLimit = 10

// ExpenseHandler handles expense ledger requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for recording an expense
type CreateExpenseRequest struct {
	ChargeName string         `json:"chargeName" binding:"required,max=200"`
	Amount     *float64       `json:"amount" binding:"required,gte=0"`
	Location   string         `json:"location" binding:"max=200"`
	Category   string         `json:"category" binding:"max=100"`
	Utility    models.Utility `json:"utility" binding:"omitempty,utility"`
	User       uint           `json:"user" binding:"required"`
}

// CreateExpense handles recording a new expense
// @Summary     Record an expense
// @Description Insert one expense. The utility is forced to aligned/regret when the charge name matches the user's classification reference. When the user has a current goal, its recomputed progress and the model's feedback are attached.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} MessageResponse "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /gastos/nuevo [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	_, progress, err := h.expenseService.RecordExpense(
		c.Request.Context(),
		req.User,
		req.ChargeName,
		*req.Amount,
		req.Location,
		req.Category,
		req.Utility,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response := gin.H{
		"message":       "✅ Gasto agregado correctamente.",
		"meta_progress": nil,
	}
	if progress != nil {
		response["meta_progress"] = gin.H{
			"meta":               newGoalResponse(progress.Goal),
			"numerical_progress": newNumericalProgress(progress),
			"feedback":           progress.Feedback,
		}
	}
	c.JSON(http.StatusCreated, response)
}

// GetAllExpenses handles the paginated global ledger listing
// @Summary     List all expenses
// @Description Get a paginated list of every expense across all users, joined with the owner's display name, ordered by user then newest first
// @Tags        expenses
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[services.LedgerEntry] "Paginated ledger"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /gastos [get]
func (h *ExpenseHandler) GetAllExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetAllExpenses(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserExpenses handles listing one user's expenses
// @Summary     List a user's expenses
// @Description Get every expense for one user, newest first
// @Tags        expenses
// @Produce     json
// @Param       user_id path int true "User ID"
// @Success     200 {object} map[string][]models.Expense "User expenses"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /gastos/{user_id} [get]
func (h *ExpenseHandler) GetUserExpenses(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetUserExpenses(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gastos": expenses})
}

// GetUnclassified handles the review queue of unclassified expenses.
// Registered both under /swipe/unclassified/{user_id} and the legacy
// /gastos/{user_id}/utility-null path.
// @Summary     List unclassified expenses
// @Description Get up to 10 of a user's unclassified expenses, oldest first, for the swipe review queue
// @Tags        swipe
// @Produce     json
// @Param       user_id path int true "User ID"
// @Success     200 {object} map[string][]models.Expense "Review queue"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /swipe/unclassified/{user_id} [get]
func (h *ExpenseHandler) GetUnclassified(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetUnclassified(userID, reviewQueueLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": expenses})
}

// ReclassifyRequest represents the request payload for reclassifying an expense
type ReclassifyRequest struct {
	ExpenseID uint           `json:"expense_id" binding:"required"`
	Utility   models.Utility `json:"utility" binding:"required,assigned_utility"`
}

// Reclassify handles assigning a utility to one expense
// @Summary     Reclassify an expense
// @Description Set one expense's utility to aligned or regret
// @Tags        swipe
// @Accept      json
// @Produce     json
// @Param       request body ReclassifyRequest true "Expense and utility"
// @Success     200 {object} MessageResponse "Utility updated"
// @Failure     400 {object} ErrorResponse "Invalid utility value"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /swipe/update [post]
func (h *ExpenseHandler) Reclassify(c *gin.Context) {
	var req ReclassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.expenseService.Reclassify(req.ExpenseID, req.Utility); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "✅ Utility actualizada correctamente."})
}

// ResetUtilitiesRequest represents the confirmation payload for the global reset
type ResetUtilitiesRequest struct {
	Confirm bool `json:"confirm"`
}

// ResetUtilities handles the global utility reset
// @Summary     Reset all utilities
// @Description Set every expense's utility back to "not assigned", across all users. Requires confirm=true.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body ResetUtilitiesRequest true "Confirmation"
// @Success     200 {object} MessageResponse "Utilities reset"
// @Failure     400 {object} ErrorResponse "Confirmation missing"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /gastos/reset-utilities [post]
func (h *ExpenseHandler) ResetUtilities(c *gin.Context) {
	var req ResetUtilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated, err := h.expenseService.ResetUtilities(req.Confirm)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "✅ Utilities reiniciadas correctamente.",
		"updated": updated,
	})
}

func newNumericalProgress(progress *services.GoalProgress) gin.H {
	return gin.H{
		"total_spent":      progress.TotalSpent,
		"total_regret":     progress.TotalRegret,
		"progress_percent": progress.ProgressPercent,
		"amount_remaining": progress.AmountRemaining,
	}
}
