package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"monedero/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique display name and no
// classification reference.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithName(t, db, fmt.Sprintf("Test User %d", nextID()))
}

// CreateTestUserWithName creates a user with the given display name.
func CreateTestUserWithName(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{Name: name}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// SetTestReference stores a classification reference on the user row.
func SetTestReference(t *testing.T, db *gorm.DB, userID uint, ref models.ClassificationReference) {
	t.Helper()

	raw, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("failed to marshal test reference: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("reference", string(raw)).Error; err != nil {
		t.Fatalf("failed to store test reference: %v", err)
	}
}

// CreateTestExpense creates an unclassified expense with a unique charge name.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, amount float64) *models.Expense {
	t.Helper()
	return CreateTestExpenseWithUtility(t, db, userID, amount, models.UtilityNotAssigned)
}

// CreateTestExpenseWithUtility creates an expense with the given utility.
func CreateTestExpenseWithUtility(t *testing.T, db *gorm.DB, userID uint, amount float64, utility models.Utility) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:     userID,
		ChargeName: fmt.Sprintf("Test Charge %d", nextID()),
		Amount:     amount,
		Timestamp:  time.Now().Truncate(time.Second),
		Location:   "Test Location",
		Category:   "Test Category",
		Utility:    utility,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGoal creates a four-week goal starting today.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, amount float64) *models.Goal {
	t.Helper()

	start := time.Now().Truncate(24 * time.Hour)
	goal := &models.Goal{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Goal %d", nextID()),
		Description: "Test goal description",
		GoalAmount:  amount,
		Tipo:        "ahorro",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 28),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
