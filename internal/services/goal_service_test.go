package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"monedero/internal/models"
	"monedero/internal/testutil"
)

func newTestGoalService(t *testing.T, gen *testutil.StubGenerator) (GoalServicer, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	if gen == nil {
		gen = &testutil.StubGenerator{Reply: `{"regrets": [], "improvements": [], "tips": []}`}
	}
	return NewGoalService(db, gen, NewCoachService(db, gen)), db
}

func TestCreateGoal(t *testing.T) {
	t.Run("creates_goal", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)
		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		goal, err := svc.CreateGoal(1, "Vacaciones", "Ahorrar para diciembre", 1800, "ahorro", start, start.AddDate(0, 3, 0))
		testutil.AssertNoError(t, err)

		if goal.ID == 0 {
			t.Fatal("expected non-zero goal ID")
		}
		if goal.GoalAmount != 1800 {
			t.Errorf("expected goal amount 1800, got %f", goal.GoalAmount)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)

		_, err := svc.CreateGoal(1, "  ", "", 100, "", time.Now(), time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)

		_, err := svc.CreateGoal(1, "Meta", "", 0, "", time.Now(), time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("end_before_start", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)
		start := time.Now()

		_, err := svc.CreateGoal(1, "Meta", "", 100, "", start, start.AddDate(0, 0, -1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCreateGoalFromPrompt(t *testing.T) {
	t.Run("creates_goal_from_oracle_reply", func(t *testing.T) {
		gen := &testutil.StubGenerator{Reply: "```json\n" +
			`{"name": "Fondo de emergencia", "description": "Tres meses de gastos", "goal_amount": 2500, "tipo": "ahorro", "start_date": "2026-09-01", "end_date": "2026-12-01"}` +
			"\n```"}
		svc, _ := newTestGoalService(t, gen)
		user := uint(1)

		goal, err := svc.CreateGoalFromPrompt(context.Background(), user, "quiero un fondo de emergencia")
		testutil.AssertNoError(t, err)

		if goal.Name != "Fondo de emergencia" {
			t.Errorf("expected name from reply, got %q", goal.Name)
		}
		if goal.GoalAmount != 2500 {
			t.Errorf("expected amount 2500, got %f", goal.GoalAmount)
		}
		if got := goal.StartDate.Format("2006-01-02"); got != "2026-09-01" {
			t.Errorf("expected start date 2026-09-01, got %s", got)
		}

		prompts := gen.Prompts()
		if len(prompts) != 1 {
			t.Fatalf("expected 1 oracle call, got %d", len(prompts))
		}
		if !strings.Contains(prompts[0], "quiero un fondo de emergencia") {
			t.Errorf("expected user request inside the prompt, got %q", prompts[0])
		}
	})

	t.Run("empty_prompt", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)

		_, err := svc.CreateGoalFromPrompt(context.Background(), 1, "  ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("oracle_unreachable", func(t *testing.T) {
		gen := &testutil.StubGenerator{Err: errors.New("connection refused")}
		svc, _ := newTestGoalService(t, gen)

		_, err := svc.CreateGoalFromPrompt(context.Background(), 1, "meta")
		testutil.AssertAppError(t, err, "ORACLE_UNAVAILABLE")
	})

	t.Run("undecodable_reply", func(t *testing.T) {
		gen := &testutil.StubGenerator{Reply: "I would love to help you save money!"}
		svc, db := newTestGoalService(t, gen)

		_, err := svc.CreateGoalFromPrompt(context.Background(), 1, "meta")
		testutil.AssertAppError(t, err, "ORACLE_BAD_REPLY")

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Goal{}).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected no goal stored after a bad reply, got %d", count)
		}
	})
}

func TestCurrentGoal(t *testing.T) {
	t.Run("latest_start_date_wins", func(t *testing.T) {
		svc, db := newTestGoalService(t, nil)
		user := testutil.CreateTestUser(t, db)

		first := testutil.CreateTestGoal(t, db, user.ID, 100)
		second := testutil.CreateTestGoal(t, db, user.ID, 200)
		testutil.AssertNoError(t, db.Model(&models.Goal{}).Where("id = ?", first.ID).
			Update("start_date", time.Now().AddDate(0, -1, 0)).Error)
		testutil.AssertNoError(t, db.Model(&models.Goal{}).Where("id = ?", second.ID).
			Update("start_date", time.Now()).Error)

		goal, err := svc.CurrentGoal(user.ID)
		testutil.AssertNoError(t, err)
		if goal.ID != second.ID {
			t.Errorf("expected the most recently started goal, got ID %d", goal.ID)
		}
	})

	t.Run("no_goals", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)

		_, err := svc.CurrentGoal(42)
		testutil.AssertAppError(t, err, "NO_CURRENT_GOAL")
	})
}

func TestGoalProgress(t *testing.T) {
	t.Run("computes_totals", func(t *testing.T) {
		gen := &testutil.StubGenerator{Reply: `{"regrets": [], "improvements": [], "tips": []}`}
		svc, db := newTestGoalService(t, gen)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestGoal(t, db, user.ID, 200)
		testutil.CreateTestExpenseWithUtility(t, db, user.ID, 40, models.UtilityAligned)
		testutil.CreateTestExpenseWithUtility(t, db, user.ID, 60, models.UtilityRegret)

		progress, err := svc.Progress(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if progress.TotalSpent != 100 {
			t.Errorf("expected total spent 100, got %f", progress.TotalSpent)
		}
		if progress.TotalRegret != 60 {
			t.Errorf("expected total regret 60, got %f", progress.TotalRegret)
		}
		if progress.ProgressPercent != 50 {
			t.Errorf("expected 50%% progress, got %f", progress.ProgressPercent)
		}
		if progress.AmountRemaining != 100 {
			t.Errorf("expected 100 remaining, got %f", progress.AmountRemaining)
		}
		if progress.Feedback != gen.Reply {
			t.Errorf("expected feedback passed through, got %q", progress.Feedback)
		}
	})

	t.Run("percent_capped_at_100", func(t *testing.T) {
		svc, db := newTestGoalService(t, nil)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestGoal(t, db, user.ID, 50)
		testutil.CreateTestExpenseWithUtility(t, db, user.ID, 120, models.UtilityAligned)

		progress, err := svc.Progress(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if progress.ProgressPercent != 100 {
			t.Errorf("expected progress capped at 100, got %f", progress.ProgressPercent)
		}
		if progress.AmountRemaining != 0 {
			t.Errorf("expected remaining floored at 0, got %f", progress.AmountRemaining)
		}
	})

	t.Run("no_goal", func(t *testing.T) {
		svc, db := newTestGoalService(t, nil)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestExpense(t, db, user.ID, 10)

		_, err := svc.Progress(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "NO_CURRENT_GOAL")
	})

	t.Run("no_expenses", func(t *testing.T) {
		svc, db := newTestGoalService(t, nil)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestGoal(t, db, user.ID, 100)

		_, err := svc.Progress(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "NO_EXPENSES")
	})

	t.Run("feedback_prompt_lists_expenses", func(t *testing.T) {
		gen := &testutil.StubGenerator{Reply: `{"regrets": [], "improvements": [], "tips": []}`}
		svc, db := newTestGoalService(t, gen)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestGoal(t, db, user.ID, 100)
		expense := testutil.CreateTestExpense(t, db, user.ID, 15)

		_, err := svc.Progress(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		prompts := gen.Prompts()
		if len(prompts) != 1 {
			t.Fatalf("expected 1 oracle call, got %d", len(prompts))
		}
		if !strings.Contains(prompts[0], expense.ChargeName) {
			t.Errorf("expected the expense to appear in the feedback prompt")
		}
	})
}

func TestGetUserGoals(t *testing.T) {
	t.Run("most_recent_first", func(t *testing.T) {
		svc, db := newTestGoalService(t, nil)
		user := testutil.CreateTestUser(t, db)

		older := testutil.CreateTestGoal(t, db, user.ID, 100)
		newer := testutil.CreateTestGoal(t, db, user.ID, 200)
		testutil.AssertNoError(t, db.Model(&models.Goal{}).Where("id = ?", older.ID).
			Update("start_date", time.Now().AddDate(0, -2, 0)).Error)

		goals, err := svc.GetUserGoals(user.ID)
		testutil.AssertNoError(t, err)

		if len(goals) != 2 {
			t.Fatalf("expected 2 goals, got %d", len(goals))
		}
		if goals[0].ID != newer.ID {
			t.Errorf("expected the newest goal first, got ID %d", goals[0].ID)
		}
	})

	t.Run("empty_for_unknown_user", func(t *testing.T) {
		svc, _ := newTestGoalService(t, nil)

		goals, err := svc.GetUserGoals(42)
		testutil.AssertNoError(t, err)
		if len(goals) != 0 {
			t.Errorf("expected no goals, got %d", len(goals))
		}
	})
}
