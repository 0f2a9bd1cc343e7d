package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"moneybook/internal/config"
	"moneybook/internal/handlers"
	"moneybook/internal/logger"
	"moneybook/internal/middleware"
	"moneybook/internal/services"
	"moneybook/internal/store"
	"moneybook/internal/validator"

	_ "moneybook/internal/docs" // Import swagger docs
)

// @title           Moneybook API
// @version         1.0
// @description     Moneybook is a personal finance ledger that tracks transactions, bank accounts, debts, and budgets per user.

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

	// Register custom request validators
	validator.Register()

	// Select the ledger storage backend
	ledgerStore, err := newStore(appConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Infof("Using %s storage backend", appConfig.StorageBackend)

	// Initialize services
	ledgerService := services.NewLedgerService(ledgerStore)

	// Initialize handlers
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	accountHandler := handlers.NewAccountHandler(ledgerService)
	debtHandler := handlers.NewDebtHandler(ledgerService)
	budgetHandler := handlers.NewBudgetHandler(ledgerService)
	statsHandler := handlers.NewStatsHandler(ledgerService)
	categoryHandler := handlers.NewCategoryHandler()

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

	// API v1 group, all routes require a bearer token
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.PUT("/:name/balance", accountHandler.UpdateBalance)
	accounts.DELETE("/:name", accountHandler.Delete)

	// Debt routes
	debts := protected.Group("/debts")
	debts.POST("", debtHandler.Create)
	debts.GET("", debtHandler.List)
	debts.PUT("/:name", debtHandler.Update)
	debts.DELETE("/:name", debtHandler.Delete)
	debts.POST("/:name/repayments", debtHandler.CreateRepayment)
	debts.DELETE("/:name/repayments/:recordID", debtHandler.DeleteRepayment)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.PUT("", budgetHandler.Update)
	budgets.DELETE("", budgetHandler.Delete)
	budgets.POST("/recompute", budgetHandler.Recompute)

	// Statistics routes
	protected.GET("/statistics", statsHandler.Statistics)
	protected.GET("/summary", statsHandler.Summary)

	// Category suggestions
	protected.GET("/categories", categoryHandler.List)

	log.Infof("Starting Moneybook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newStore builds the ledger store named by STORAGE_BACKEND.
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return store.NewFileStore(cfg.DataDir)
	case config.BackendDatabase:
		db, err := store.OpenDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewDatabaseStore(db)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
