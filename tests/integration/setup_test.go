package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"monedero/internal/handlers"
	"monedero/internal/logger"
	"monedero/internal/middleware"
	"monedero/internal/models"
	"monedero/internal/services"
	"monedero/internal/testutil"
	"monedero/internal/validator"
)

// testApp holds the full application stack for integration tests. The
// oracle is a stub whose reply each test controls.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Oracle *testutil.StubGenerator
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Expense{},
		&models.Goal{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	oracle := &testutil.StubGenerator{Reply: `{"regrets": [], "improvements": [], "tips": []}`}

	// Services
	userService := services.NewUserService(db)
	coachService := services.NewCoachService(db, oracle)
	goalService := services.NewGoalService(db, oracle, coachService)
	expenseService := services.NewExpenseService(db, goalService)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	goalHandler := handlers.NewGoalHandler(goalService)
	coachHandler := handlers.NewCoachHandler(coachService)
	oracleHandler := handlers.NewOracleHandler(oracle)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.POST("/usuarios", userHandler.CreateUser)

	router.POST("/gastos/nuevo", expenseHandler.CreateExpense)
	router.GET("/gastos", expenseHandler.GetAllExpenses)
	router.GET("/gastos/:user_id", expenseHandler.GetUserExpenses)
	router.GET("/gastos/:user_id/utility-null", expenseHandler.GetUnclassified)
	router.POST("/gastos/referencia", userHandler.SetReference)
	router.POST("/gastos/reset-utilities", expenseHandler.ResetUtilities)

	router.GET("/swipe/unclassified/:user_id", expenseHandler.GetUnclassified)
	router.POST("/swipe/update", expenseHandler.Reclassify)

	router.POST("/metas", goalHandler.CreateGoalFromPrompt)
	router.POST("/metas/nueva", goalHandler.CreateGoal)
	router.GET("/metas/:user_id", goalHandler.GetUserGoals)
	router.GET("/metas/:user_id/progreso", goalHandler.GetProgress)

	router.GET("/coach/:user_id", coachHandler.GetMetrics)
	router.GET("/coach/:user_id/opportunities", coachHandler.GetOpportunities)

	router.POST("/emojis", oracleHandler.Categorize)
	router.POST("/ask", oracleHandler.Ask)

	return &testApp{DB: db, Router: router, Oracle: oracle}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createUser creates a user through the API and returns its ID.
func (app *testApp) createUser(t *testing.T, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/usuarios", fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return user["id"].(float64)
}

// addExpense records an expense through the API.
func (app *testApp) addExpense(t *testing.T, userID float64, chargeName string, amount float64, utility string) {
	t.Helper()
	body := fmt.Sprintf(`{"chargeName":%q,"amount":%v,"user":%.0f`, chargeName, amount, userID)
	if utility != "" {
		body += fmt.Sprintf(`,"utility":%q`, utility)
	}
	body += "}"
	rec := app.request("POST", "/gastos/nuevo", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add expense failed: %d %s", rec.Code, rec.Body.String())
	}
}
