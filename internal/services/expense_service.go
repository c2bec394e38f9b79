package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "monedero/internal/errors"
	"monedero/internal/logger"
	"monedero/internal/models"
	"monedero/internal/pagination"
)

// expenseService handles the expense ledger business logic.
type expenseService struct {
	db          *gorm.DB
	goalService GoalServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, goalService GoalServicer) ExpenseServicer {
	return &expenseService{db: db, goalService: goalService}
}

// RecordExpense inserts one expense with a server-assigned timestamp. The
// caller-supplied utility is overridden when the charge name exactly matches
// an entry in the owner's classification reference. After a successful
// insert it also recomputes the current goal's progress and feedback as a
// convenience for the client; a nil GoalProgress means no goal exists or
// the composition failed after the insert was already durable.
func (s *expenseService) RecordExpense(
	ctx context.Context,
	userID uint,
	chargeName string,
	amount float64,
	location, category string,
	utility models.Utility,
) (*models.Expense, *GoalProgress, error) {
	if strings.TrimSpace(chargeName) == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "chargeName is required")
	}
	if amount < 0 {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if utility == "" {
		utility = models.UtilityNotAssigned
	}
	if !utility.Valid() {
		return nil, nil, apperrors.ErrInvalidUtility
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ref, err := user.ParseReference()
	if err != nil {
		// A corrupt stored reference loses the hint, not the expense.
		logger.Get().Warnw("unreadable classification reference", "user_id", userID, "error", err.Error())
	} else if forced, ok := ref.Classify(chargeName); ok {
		utility = forced
	}

	expense := &models.Expense{
		UserID:     userID,
		ChargeName: chargeName,
		Amount:     amount,
		Timestamp:  time.Now().Truncate(time.Second),
		Location:   location,
		Category:   category,
		Utility:    utility,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	progress, err := s.goalService.Progress(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoCurrentGoal) && !errors.Is(err, apperrors.ErrNoExpenses) {
			// The expense is already committed; losing the progress
			// composition must not turn the insert into a failure.
			logger.Get().Warnw("goal progress composition failed after insert",
				"user_id", userID, "error", err.Error())
		}
		return expense, nil, nil
	}
	return expense, progress, nil
}

// GetAllExpenses returns a page of the global ledger: every expense across
// every user joined with the owner's display name, ordered by user then by
// timestamp descending.
func (s *expenseService) GetAllExpenses(page pagination.PageRequest) (*pagination.PageResponse[LedgerEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).
		Joins("INNER JOIN usuarios ON usuarios.id = gastos.user_id")

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []LedgerEntry
	if err := base.
		Select("usuarios.name AS user_name, gastos.id, gastos.charge_name, gastos.amount, gastos.timestamp, gastos.location, gastos.category, gastos.utility").
		Scopes(pagination.Paginate(page)).
		Order("usuarios.name, gastos.timestamp DESC").
		Scan(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserExpenses returns every expense for one user, newest first.
func (s *expenseService) GetUserExpenses(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetUnclassified returns up to limit unclassified expenses for a user,
// oldest first. The reversed order is intentional: this is a review queue,
// and the oldest pending decision should surface first.
func (s *expenseService) GetUnclassified(userID uint, limit int) ([]models.Expense, error) {
	if limit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be positive")
	}

	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND utility = ?", userID, models.UtilityNotAssigned).
		Order("timestamp ASC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// Reclassify sets one expense's utility to aligned or regret. Any other
// value is rejected before the store is touched.
func (s *expenseService) Reclassify(expenseID uint, utility models.Utility) error {
	if !utility.Assigned() {
		return apperrors.ErrInvalidUtility
	}

	result := s.db.Model(&models.Expense{}).Where("id = ?", expenseID).Update("utility", utility)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// ResetUtilities sets every expense's utility back to "not assigned",
// regardless of owner, and returns the number of rows that existed before
// the reset. The caller must pass confirm=true; the destructive write never
// happens otherwise.
func (s *expenseService) ResetUtilities(confirm bool) (int64, error) {
	if !confirm {
		return 0, apperrors.ErrResetNotConfirmed
	}

	var total int64
	if err := s.db.Model(&models.Expense{}).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&models.Expense{}).
		Update("utility", models.UtilityNotAssigned).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return total, nil
}
