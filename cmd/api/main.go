package main

import (
	"fmt"
	"net/http"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           FinTrack API
// @version         1.0
// @description     FinTrack is a personal finance tracker with budgets, recurring transactions, subscriptions, shared expenses, and spending analytics.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Initialize services
	db := dbManager.DB()
	if err := services.SeedDefaultTemplates(db); err != nil {
		return fmt.Errorf("failed to seed budget templates: %w", err)
	}

	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db, userService)
	categoryBudgetService := services.NewCategoryBudgetService(db)
	recurrenceService := services.NewRecurrenceService(db)
	recurringService := services.NewRecurringService(db)
	subscriptionService := services.NewSubscriptionService(db)
	analyticsService := services.NewAnalyticsService(db)
	groupService := services.NewGroupService(db, userService)
	goalService := services.NewGoalService(db)
	templateService := services.NewTemplateService(db, categoryBudgetService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	categoryBudgetHandler := handlers.NewCategoryBudgetHandler(categoryBudgetService, auditService)
	recurringHandler := handlers.NewRecurringHandler(recurringService, recurrenceService, auditService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	groupHandler := handlers.NewGroupHandler(groupService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	templateHandler := handlers.NewTemplateHandler(templateService, auditService)

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

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Whole-account budget routes
	budget := protected.Group("/budget")
	budget.GET("/status", budgetHandler.GetBudgetStatus)
	budget.PUT("", budgetHandler.SetMonthlyBudget)

	// Category budget routes
	budgets := protected.Group("/budgets")
	budgets.GET("", categoryBudgetHandler.ListCategoryBudgets)
	budgets.PUT("", categoryBudgetHandler.SetCategoryBudget)
	budgets.DELETE("/:id", categoryBudgetHandler.DeleteCategoryBudget)
	budgets.POST("/rollover", categoryBudgetHandler.Rollover)
	budgets.GET("/alerts", categoryBudgetHandler.GetAlerts)
	budgets.POST("/:id/alerts/:threshold/sent", categoryBudgetHandler.MarkAlertSent)

	// Recurring transaction routes
	recurring := protected.Group("/recurring")
	recurring.GET("", recurringHandler.ListRecurring)
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("/detect", recurringHandler.Detect)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)
	recurring.POST("/:id/materialize", recurringHandler.Materialize)

	// Subscription routes
	subscriptions := protected.Group("/subscriptions")
	subscriptions.GET("", subscriptionHandler.ListSubscriptions)
	subscriptions.POST("", subscriptionHandler.CreateSubscription)
	subscriptions.GET("/insights", subscriptionHandler.GetInsights)
	subscriptions.GET("/reminders", subscriptionHandler.GetCancelReminders)
	subscriptions.PUT("/:id", subscriptionHandler.UpdateSubscription)
	subscriptions.DELETE("/:id", subscriptionHandler.DeleteSubscription)

	// Analytics routes
	analytics := protected.Group("/analytics")
	analytics.GET("/trends", analyticsHandler.GetTrends)
	analytics.GET("/forecast", analyticsHandler.GetForecast)
	analytics.GET("/velocity", analyticsHandler.GetVelocity)
	analytics.GET("/category-comparison", analyticsHandler.GetCategoryComparison)
	analytics.GET("/heatmap", analyticsHandler.GetHeatmap)
	analytics.GET("/insights", analyticsHandler.GetInsights)

	// Group routes
	groups := protected.Group("/groups")
	groups.POST("", groupHandler.CreateGroup)
	groups.GET("", groupHandler.GetGroups)
	groups.GET("/:id", groupHandler.GetGroup)
	groups.PUT("/:id", groupHandler.UpdateGroup)
	groups.DELETE("/:id", groupHandler.DeleteGroup)
	groups.POST("/:id/members", groupHandler.AddMember)
	groups.PUT("/:id/members/:member_id", groupHandler.UpdateMemberRole)
	groups.DELETE("/:id/members/:member_id", groupHandler.RemoveMember)
	groups.GET("/:id/expenses", groupHandler.ListExpenses)
	groups.POST("/:id/expenses", groupHandler.CreateExpense)
	groups.POST("/:id/expenses/split", groupHandler.PreviewSplit)
	groups.PUT("/:id/expenses/:expense_id", groupHandler.UpdateExpense)
	groups.DELETE("/:id/expenses/:expense_id", groupHandler.DeleteExpense)

	// Savings goal routes
	goals := protected.Group("/goals")
	goals.GET("", goalHandler.ListGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Budget template routes
	templates := protected.Group("/templates")
	templates.GET("", templateHandler.ListTemplates)
	templates.POST("/:id/apply", templateHandler.ApplyTemplate)

	log.Infof("Starting FinTrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
