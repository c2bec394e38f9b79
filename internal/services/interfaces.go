package services

import (
	"context"
	"time"

	"monedero/internal/models"
	"monedero/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	SetReference(userID uint, ref models.ClassificationReference) error
}

// LedgerEntry is one row of the global expense listing, an expense joined
// with its owner's display name.
type LedgerEntry struct {
	UserName   string         `json:"user_name"`
	ID         uint           `json:"id"`
	ChargeName string         `json:"chargeName"`
	Amount     float64        `json:"amount"`
	Timestamp  time.Time      `json:"timestamp"`
	Location   string         `json:"location"`
	Category   string         `json:"category"`
	Utility    models.Utility `json:"utility"`
}

// ExpenseServicer defines the contract for the expense ledger.
type ExpenseServicer interface {
	RecordExpense(ctx context.Context, userID uint, chargeName string, amount float64, location, category string, utility models.Utility) (*models.Expense, *GoalProgress, error)
	GetAllExpenses(page pagination.PageRequest) (*pagination.PageResponse[LedgerEntry], error)
	GetUserExpenses(userID uint) ([]models.Expense, error)
	GetUnclassified(userID uint, limit int) ([]models.Expense, error)
	Reclassify(expenseID uint, utility models.Utility) error
	ResetUtilities(confirm bool) (int64, error)
}

// GoalProgress reports how a user's all-time spend measures against the
// current goal, together with the oracle's qualitative commentary.
type GoalProgress struct {
	Goal            *models.Goal
	TotalSpent      float64
	TotalRegret     float64
	ProgressPercent float64
	AmountRemaining float64
	Feedback        string
}

// GoalServicer defines the contract for goal management.
type GoalServicer interface {
	CreateGoal(userID uint, name, description string, goalAmount float64, tipo string, start, end time.Time) (*models.Goal, error)
	CreateGoalFromPrompt(ctx context.Context, userID uint, prompt string) (*models.Goal, error)
	GetUserGoals(userID uint) ([]models.Goal, error)
	CurrentGoal(userID uint) (*models.Goal, error)
	Progress(ctx context.Context, userID uint) (*GoalProgress, error)
}

// CoachMetrics are the weekly-coaching figures shown on the client's coach
// screen. JSON field names match what that screen decodes.
type CoachMetrics struct {
	NecessarySpend   float64 `json:"necessarySpend"`
	UnnecessarySpend float64 `json:"unnecessarySpend"`
	WeeklyCap        float64 `json:"capSemanal"`
	Target           float64 `json:"metaSemanal"`
	Progress         float64 `json:"progress"`
	UnsortedCount    int64   `json:"unsortedCount"`
	Impact           float64 `json:"impact"`
	GoalName         string  `json:"goalName,omitempty"`
}

// Opportunity is a templated savings suggestion derived from one regretted
// expense.
type Opportunity struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// CoachServicer defines the contract for coaching and feedback derivation.
type CoachServicer interface {
	Metrics(userID uint) (*CoachMetrics, error)
	Opportunities(userID uint) ([]Opportunity, error)
	NarrativeFeedback(ctx context.Context, expenses []models.Expense) (string, error)
}
