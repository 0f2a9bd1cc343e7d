package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"moneybook/internal/handlers"
	"moneybook/internal/logger"
	"moneybook/internal/middleware"
	"moneybook/internal/services"
	"moneybook/internal/store"
	"moneybook/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by a file store in a
// per-test temp directory.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	fileStore, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	ledgerService := services.NewLedgerService(fileStore)

	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	accountHandler := handlers.NewAccountHandler(ledgerService)
	debtHandler := handlers.NewDebtHandler(ledgerService)
	budgetHandler := handlers.NewBudgetHandler(ledgerService)
	statsHandler := handlers.NewStatsHandler(ledgerService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.PUT("/:name/balance", accountHandler.UpdateBalance)
	accounts.DELETE("/:name", accountHandler.Delete)

	debts := protected.Group("/debts")
	debts.POST("", debtHandler.Create)
	debts.GET("", debtHandler.List)
	debts.PUT("/:name", debtHandler.Update)
	debts.DELETE("/:name", debtHandler.Delete)
	debts.POST("/:name/repayments", debtHandler.CreateRepayment)
	debts.DELETE("/:name/repayments/:recordID", debtHandler.DeleteRepayment)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.PUT("", budgetHandler.Update)
	budgets.DELETE("", budgetHandler.Delete)
	budgets.POST("/recompute", budgetHandler.Recompute)

	protected.GET("/statistics", statsHandler.Statistics)
	protected.GET("/summary", statsHandler.Summary)

	return &testApp{Router: router}
}

// token mints a bearer token for the given user.
func (app *testApp) token(t *testing.T, username string) string {
	t.Helper()
	token, err := middleware.GenerateToken(username)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// request performs an authenticated JSON request against the app.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
