package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "monedero/internal/errors"
	"monedero/internal/models"
	"monedero/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn           func(userID uint, name, description string, goalAmount float64, tipo string, start, end time.Time) (*models.Goal, error)
	createGoalFromPromptFn func(ctx context.Context, userID uint, prompt string) (*models.Goal, error)
	getUserGoalsFn         func(userID uint) ([]models.Goal, error)
	currentGoalFn          func(userID uint) (*models.Goal, error)
	progressFn             func(ctx context.Context, userID uint) (*services.GoalProgress, error)
}

func (m *mockGoalService) CreateGoal(userID uint, name, description string, goalAmount float64, tipo string, start, end time.Time) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, description, goalAmount, tipo, start, end)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) CreateGoalFromPrompt(ctx context.Context, userID uint, prompt string) (*models.Goal, error) {
	if m.createGoalFromPromptFn != nil {
		return m.createGoalFromPromptFn(ctx, userID, prompt)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID)
	}
	return nil, nil
}

func (m *mockGoalService) CurrentGoal(userID uint) (*models.Goal, error) {
	if m.currentGoalFn != nil {
		return m.currentGoalFn(userID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) Progress(ctx context.Context, userID uint) (*services.GoalProgress, error) {
	if m.progressFn != nil {
		return m.progressFn(ctx, userID)
	}
	return &services.GoalProgress{Goal: testGoal()}, nil
}

// verify interface compliance
var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	r.POST("/metas", handler.CreateGoalFromPrompt)
	r.POST("/metas/nueva", handler.CreateGoal)
	r.GET("/metas/:user_id", handler.GetUserGoals)
	r.GET("/metas/:user_id/progreso", handler.GetProgress)
	return r
}

// --- tests ---

func TestGoalHandler_CreateGoalFromPrompt(t *testing.T) {
	t.Run("returns 201 with meta envelope", func(t *testing.T) {
		goalSvc := &mockGoalService{
			createGoalFromPromptFn: func(_ context.Context, userID uint, prompt string) (*models.Goal, error) {
				goal := testGoal()
				goal.UserID = userID
				return goal, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "POST", "/metas", `{"user_id":1,"prompt":"ahorrar para un viaje"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "✅ Meta creada correctamente." {
			t.Errorf("unexpected message: %v", result["message"])
		}
		meta := result["meta"].(map[string]interface{})
		if meta["name"] != "Vacaciones" {
			t.Errorf("expected goal name in envelope, got %v", meta["name"])
		}
		if meta["start_date"] != "2026-08-01" {
			t.Errorf("expected formatted start date, got %v", meta["start_date"])
		}
	})

	t.Run("returns 400 on missing prompt", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/metas", `{"user_id":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when the oracle is unreachable", func(t *testing.T) {
		goalSvc := &mockGoalService{
			createGoalFromPromptFn: func(context.Context, uint, string) (*models.Goal, error) {
				return nil, apperrors.Wrap(apperrors.ErrOracleUnavailable, errors.New("dial tcp: timeout"))
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "POST", "/metas", `{"user_id":1,"prompt":"meta"}`)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ORACLE_UNAVAILABLE")
	})
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 and parses dates", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		goalSvc := &mockGoalService{
			createGoalFn: func(userID uint, name, _ string, amount float64, _ string, start, end time.Time) (*models.Goal, error) {
				gotStart, gotEnd = start, end
				return &models.Goal{ID: 1, UserID: userID, Name: name, GoalAmount: amount, StartDate: start, EndDate: end}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "POST", "/metas/nueva",
			`{"user_id":1,"name":"Meta","goal_amount":500,"start_date":"2026-09-01","end_date":"2026-12-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStart.Format("2006-01-02") != "2026-09-01" || gotEnd.Format("2006-01-02") != "2026-12-01" {
			t.Errorf("expected parsed dates, got %v and %v", gotStart, gotEnd)
		}
	})

	t.Run("returns 400 on bad date format", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/metas/nueva",
			`{"user_id":1,"name":"Meta","goal_amount":500,"start_date":"September 1st","end_date":"2026-12-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/metas/nueva",
			`{"user_id":1,"name":"Meta","goal_amount":0,"start_date":"2026-09-01","end_date":"2026-12-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetUserGoals(t *testing.T) {
	t.Run("returns 200 with metas envelope", func(t *testing.T) {
		goalSvc := &mockGoalService{
			getUserGoalsFn: func(userID uint) ([]models.Goal, error) {
				return []models.Goal{*testGoal()}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "GET", "/metas/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		metas := result["metas"].([]interface{})
		if len(metas) != 1 {
			t.Fatalf("expected 1 goal, got %d", len(metas))
		}
	})

	t.Run("returns empty list for user without goals", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "GET", "/metas/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		metas := result["metas"].([]interface{})
		if len(metas) != 0 {
			t.Errorf("expected empty list, got %v", metas)
		}
	})
}

func TestGoalHandler_GetProgress(t *testing.T) {
	t.Run("returns 200 with progress envelope", func(t *testing.T) {
		goalSvc := &mockGoalService{
			progressFn: func(_ context.Context, _ uint) (*services.GoalProgress, error) {
				return &services.GoalProgress{
					Goal:            testGoal(),
					TotalSpent:      100,
					TotalRegret:     60,
					ProgressPercent: 50,
					AmountRemaining: 100,
					Feedback:        `{"tips": ["ahorra más"]}`,
				}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "GET", "/metas/1/progreso", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		numbers := result["numerical_progress"].(map[string]interface{})
		if numbers["total_regret"] != 60.0 {
			t.Errorf("expected total_regret 60, got %v", numbers["total_regret"])
		}
		if result["feedback"] != `{"tips": ["ahorra más"]}` {
			t.Errorf("expected feedback passed through, got %v", result["feedback"])
		}
	})

	t.Run("returns 200 message when the user has no goals", func(t *testing.T) {
		goalSvc := &mockGoalService{
			progressFn: func(context.Context, uint) (*services.GoalProgress, error) {
				return nil, apperrors.ErrNoCurrentGoal
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "GET", "/metas/1/progreso", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["message"] != "No hay metas registradas para este usuario." {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})

	t.Run("returns 200 message when the user has no expenses", func(t *testing.T) {
		goalSvc := &mockGoalService{
			progressFn: func(context.Context, uint) (*services.GoalProgress, error) {
				return nil, apperrors.ErrNoExpenses
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "GET", "/metas/1/progreso", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["message"] != "No hay gastos registrados para este usuario." {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})

	t.Run("returns 502 when the oracle fails", func(t *testing.T) {
		goalSvc := &mockGoalService{
			progressFn: func(context.Context, uint) (*services.GoalProgress, error) {
				return nil, apperrors.Wrap(apperrors.ErrOracleUnavailable, errors.New("timeout"))
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc))

		rec := doRequest(r, "GET", "/metas/1/progreso", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}
