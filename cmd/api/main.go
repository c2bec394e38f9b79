package main

import (
	"fmt"
	"monedero/internal/config"
	"monedero/internal/database"
	"monedero/internal/handlers"
	"monedero/internal/logger"
	"monedero/internal/middleware"
	"monedero/internal/oracle"
	"monedero/internal/services"
	"monedero/internal/validator"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "monedero/internal/docs" // Import swagger docs
)

// @title           Monedero API
// @version         1.0
// @description     Monedero is a personal finance backend that records expenses, classifies them against the user's stated intentions, tracks savings goals, and asks a generative model for coaching feedback.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize the oracle client
	generator := oracle.NewClient(appConfig.GeminiAPIKey, appConfig.GeminiModel, &http.Client{
		Timeout: appConfig.OracleTimeout,
	})

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	coachService := services.NewCoachService(db, generator)
	goalService := services.NewGoalService(db, generator, coachService)
	expenseService := services.NewExpenseService(db, goalService)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	goalHandler := handlers.NewGoalHandler(goalService)
	coachHandler := handlers.NewCoachHandler(coachService)
	oracleHandler := handlers.NewOracleHandler(generator)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// User routes
	router.POST("/usuarios", userHandler.CreateUser)

	// Expense ledger routes
	router.POST("/gastos/nuevo", expenseHandler.CreateExpense)
	router.GET("/gastos", expenseHandler.GetAllExpenses)
	router.GET("/gastos/:user_id", expenseHandler.GetUserExpenses)
	router.GET("/gastos/:user_id/utility-null", expenseHandler.GetUnclassified)
	router.POST("/gastos/referencia", userHandler.SetReference)
	router.POST("/gastos/reset-utilities", expenseHandler.ResetUtilities)

	// Swipe review routes
	router.GET("/swipe/unclassified/:user_id", expenseHandler.GetUnclassified)
	router.POST("/swipe/update", expenseHandler.Reclassify)

	// Goal routes
	router.POST("/metas", goalHandler.CreateGoalFromPrompt)
	router.POST("/metas/nueva", goalHandler.CreateGoal)
	router.GET("/metas/:user_id", goalHandler.GetUserGoals)
	router.GET("/metas/:user_id/progreso", goalHandler.GetProgress)

	// Coach routes
	router.GET("/coach/:user_id", coachHandler.GetMetrics)
	router.GET("/coach/:user_id/opportunities", coachHandler.GetOpportunities)

	// Oracle routes
	router.POST("/emojis", oracleHandler.Categorize)
	router.POST("/ask", oracleHandler.Ask)

	log.Infof("Starting Monedero backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
