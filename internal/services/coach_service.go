package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	apperrors "monedero/internal/errors"
	"monedero/internal/models"
	"monedero/internal/oracle"
)

// Defaults shown when a user has no goal yet. They mirror the figures the
// mobile coach screen ships with, so a fresh account renders sensibly.
const (
	defaultGoalTarget   = 1800.0
	placeholderProgress = 0.37
	defaultWeeklyCap    = 1000.0
)

// recoverableShare is the fixed assumption that half of regretted spending
// could have been saved.
const recoverableShare = 0.5

// opportunityLimit caps the savings suggestions at three; this is a hard
// cap, not a configurable top-K.
const opportunityLimit = 3

var opportunityActions = []string{"Reducir este gasto", "Mantener por ahora"}

// coachService derives coaching metrics and feedback from the ledger.
type coachService struct {
	db        *gorm.DB
	generator oracle.Generator
}

// NewCoachService creates a new CoachServicer.
func NewCoachService(db *gorm.DB, generator oracle.Generator) CoachServicer {
	return &coachService{db: db, generator: generator}
}

// Metrics computes the weekly-coaching figures for a user: aligned and
// regretted spend totals, the unclassified backlog, progress against the
// current goal, and the recoverable impact of regretted spending.
func (s *coachService) Metrics(userID uint) (*CoachMetrics, error) {
	necessary, err := s.sumByUtility(userID, models.UtilityAligned)
	if err != nil {
		return nil, err
	}
	unnecessary, err := s.sumByUtility(userID, models.UtilityRegret)
	if err != nil {
		return nil, err
	}

	var unsorted int64
	if err := s.db.Model(&models.Expense{}).
		Where("user_id = ? AND utility = ?", userID, models.UtilityNotAssigned).
		Count(&unsorted).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	metrics := &CoachMetrics{
		NecessarySpend:   necessary,
		UnnecessarySpend: unnecessary,
		UnsortedCount:    unsorted,
		Impact:           unnecessary * recoverableShare,
	}

	var goal models.Goal
	err = s.db.Where("user_id = ?", userID).Order("start_date DESC").First(&goal).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		metrics.Target = defaultGoalTarget
		metrics.Progress = placeholderProgress
		metrics.WeeklyCap = defaultWeeklyCap
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	default:
		metrics.GoalName = goal.Name
		metrics.Target = goal.GoalAmount
		metrics.WeeklyCap = weeklyCap(goal)
		if goal.GoalAmount > 0 {
			metrics.Progress = math.Min(necessary/goal.GoalAmount, 1.0)
		}
	}

	metrics.Progress = math.Round(metrics.Progress*100) / 100
	return metrics, nil
}

// weeklyCap spreads the goal amount over the goal's week count.
func weeklyCap(goal models.Goal) float64 {
	weeks := goal.EndDate.Sub(goal.StartDate).Hours() / (24 * 7)
	if weeks < 1 {
		weeks = 1
	}
	return goal.GoalAmount / math.Ceil(weeks)
}

func (s *coachService) sumByUtility(userID uint, utility models.Utility) (float64, error) {
	var sum float64
	if err := s.db.Model(&models.Expense{}).
		Where("user_id = ? AND utility = ?", userID, utility).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sum, nil
}

// Opportunities turns up to three regretted expenses into templated savings
// suggestions, in the store's natural order.
func (s *coachService) Opportunities(userID uint) ([]Opportunity, error) {
	var regrets []models.Expense
	if err := s.db.Where("user_id = ? AND utility = ?", userID, models.UtilityRegret).
		Limit(opportunityLimit).
		Find(&regrets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	opportunities := make([]Opportunity, 0, len(regrets))
	for _, g := range regrets {
		opportunities = append(opportunities, Opportunity{
			Title:       fmt.Sprintf("Reconsidera %q", g.ChargeName),
			Description: fmt.Sprintf("Gastaste $%.2f en %s.", g.Amount, g.Category),
			Actions:     opportunityActions,
		})
	}
	return opportunities, nil
}

// NarrativeFeedback sends the user's expense summary to the oracle and
// returns its reply verbatim. The oracle is asked for JSON, but whatever
// comes back is handed to the client unparsed.
func (s *coachService) NarrativeFeedback(ctx context.Context, expenses []models.Expense) (string, error) {
	raw, err := s.generator.Generate(ctx, oracle.BuildFeedbackPrompt(expenses))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrOracleUnavailable, err)
	}
	return raw, nil
}
