package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "monedero/internal/errors"
	"monedero/internal/models"
	"monedero/internal/oracle"
)

// goalService handles goal management business logic.
type goalService struct {
	db           *gorm.DB
	generator    oracle.Generator
	coachService CoachServicer
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, generator oracle.Generator, coachService CoachServicer) GoalServicer {
	return &goalService{db: db, generator: generator, coachService: coachService}
}

// CreateGoal inserts a goal from explicit fields. No oracle involvement.
func (s *goalService) CreateGoal(userID uint, name, description string, goalAmount float64, tipo string, start, end time.Time) (*models.Goal, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if goalAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal_amount must be greater than zero")
	}
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not precede start_date")
	}

	goal := &models.Goal{
		UserID:      userID,
		Name:        name,
		Description: description,
		GoalAmount:  goalAmount,
		Tipo:        tipo,
		StartDate:   start,
		EndDate:     end,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// CreateGoalFromPrompt asks the oracle to derive all goal fields from the
// user's free-text request and inserts the result. An undecodable reply is
// reported as an oracle error, never retried.
func (s *goalService) CreateGoalFromPrompt(ctx context.Context, userID uint, prompt string) (*models.Goal, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "prompt is required")
	}

	raw, err := s.generator.Generate(ctx, oracle.BuildGoalPrompt(prompt, time.Now()))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOracleUnavailable, err)
	}

	reply, start, end, err := oracle.ParseGoalReply(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOracleBadReply, err)
	}

	return s.CreateGoal(userID, reply.Name, reply.Description, reply.GoalAmount, reply.Tipo, start, end)
}

// GetUserGoals returns every goal for a user, most recently started first.
func (s *goalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// CurrentGoal resolves the user's current goal: the one with the latest
// start date.
func (s *goalService) CurrentGoal(userID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoCurrentGoal
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// Progress measures the user's all-time spend against the current goal and
// attaches the oracle's narrative feedback. Spend is deliberately not
// scoped to the goal's date window, for compatibility with every existing
// client of this API.
func (s *goalService) Progress(ctx context.Context, userID uint) (*GoalProgress, error) {
	goal, err := s.CurrentGoal(userID)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(expenses) == 0 {
		return nil, apperrors.ErrNoExpenses
	}

	var totalSpent, totalRegret float64
	for _, g := range expenses {
		totalSpent += g.Amount
		if g.Utility == models.UtilityRegret {
			totalRegret += g.Amount
		}
	}

	var percent float64
	if goal.GoalAmount > 0 {
		percent = totalSpent / goal.GoalAmount * 100
		if percent > 100 {
			percent = 100
		}
	}
	remaining := goal.GoalAmount - totalSpent
	if remaining < 0 {
		remaining = 0
	}

	feedback, err := s.coachService.NarrativeFeedback(ctx, expenses)
	if err != nil {
		return nil, err
	}

	return &GoalProgress{
		Goal:            goal,
		TotalSpent:      totalSpent,
		TotalRegret:     totalRegret,
		ProgressPercent: percent,
		AmountRemaining: remaining,
		Feedback:        feedback,
	}, nil
}
